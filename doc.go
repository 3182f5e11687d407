// Package relauto is a relational automated-feature-engineering pipeline
// orchestrator for Go: given a population table, zero or more peripheral
// tables joined to it in a star/snowflake schema, and a declarative
// Config naming preprocessors, feature learners, feature selectors, and
// predictors, it stages the join tree, fits every stage with
// fingerprint-cached short-circuiting, scores the result, and persists or
// reloads the whole fitted pipeline to a directory.
//
// # Quick Start
//
// Fitting a pipeline against a single population table with no
// peripherals:
//
//	import (
//	    "context"
//
//	    "github.com/relauto/engine/io/csv"
//	    "github.com/relauto/engine/pipeline"
//	    "github.com/relauto/engine/predictor"
//	    "github.com/relauto/engine/schema"
//	)
//
//	population, _ := csv.ReadCSV("customers.csv")
//	population.SetRole("age", "numerical")
//	population.SetRole("churned", "target")
//	population.SetName("population")
//
//	model := schema.New("population")
//	model.Roles["age"] = schema.RoleNumerical
//	model.Roles["churned"] = schema.RoleTarget
//
//	cfg := &pipeline.Config{
//	    ProjectName:  "churn",
//	    PipelineName: "v1",
//	    DataModel:    model,
//	    Targets:      []string{"churned"},
//	    Predictors: []pipeline.PredictorFactory{
//	        func(fields fingerprint.PredictorHyperparams, deps []fingerprint.Fingerprint) predictor.Predictor {
//	            return predictor.NewLogisticRegression("l2", 1.0, 100, fields, deps)
//	        },
//	    },
//	}
//
//	pm := pipeline.NewProjectManager()
//	orch := pipeline.NewOrchestrator(pm, pipeline.StderrLogger{}, 0)
//	fp, scores, _ := orch.Fit(context.Background(), cfg, population, nil)
//	pipeline.Save(fp, "./churn-v1")
//
// The `relauto` CLI (cmd/relauto) wraps the same Config construction in a
// JSON recipe file, driven through `relauto fit`/`transform`/`score`/`sql`/
// `watch`, plus the inherited CSV inspection subcommands
// (`head`/`tail`/`describe`/`convert`/`filter`/`select`).
//
// # Package Organization
//
//   - core: shared dtypes, sentinel errors
//   - series / dataframe: labeled 1D/2D in-memory tables
//   - io/csv, io/json: delimited/JSON reading and writing
//   - schema: DataModel join-tree declaration, Placeholder staging output,
//     Schema role partition
//   - staging: the StagingRewriter that turns a DataModel + raw tables
//     into a Placeholder tree and rewritten staged frames
//   - fingerprint: the content-addressed Fingerprint sum type every
//     cacheable stage hashes itself into
//   - tracker: the generic fingerprint->artifact DependencyTracker
//   - preprocessor: per-column transformations fit once and cached
//   - featurelearner: FastProp, the aggregation-based automatic feature
//     generator
//   - predictorimpl: the shared dense/categorical feature-matrix layout
//     predictors and feature selectors are fit against
//   - predictor: LinearRegression, LogisticRegression, XGBoost (gradient
//     boosting over models/tree.DecisionTree)
//   - pipeline: Orchestrator, FittedPipeline, Config, Scores, Save/Load —
//     the fit/transform/score/persist state machine tying every stage
//     together
//   - dbconn: Connector/Iterator/Reader database contracts plus a Neo4j
//     adapter and a delimited-file reader
//   - sqlgen: SQLite/Postgres/MySQL staging-table SQL printers
//   - features, models: estimator/transformer library reused as the
//     concrete implementations behind preprocessor, featurelearner, and
//     predictor
//   - stats: descriptive statistics and hypothesis testing
//
// For more information, visit: https://github.com/relauto/engine
package relauto
