package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/featurelearner"
	"github.com/relauto/engine/fingerprint"
	"github.com/relauto/engine/io/csv"
	"github.com/relauto/engine/pipeline"
	"github.com/relauto/engine/predictor"
	"github.com/relauto/engine/preprocessor"
	"github.com/relauto/engine/schema"
	"github.com/relauto/engine/staging"
)

// stepSpec names one preprocessor/feature-learner/predictor by a short type
// tag plus its JSON-encoded hyperparameters, the CLI's equivalent of the
// plain-struct ("LinearRegression{FitIntercept: true}") configuration
// idiom used elsewhere in this repo — a recipe file is just that literal,
// serialized.
type stepSpec struct {
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params"`
}

type edgeSpec struct {
	File         string            `json:"file"`
	TableName    string            `json:"table_name"`
	Roles        map[string]string `json:"roles"`
	Relationship string            `json:"relationship"`
	JoinKey      string            `json:"join_key"`
	OtherJoinKey string            `json:"other_join_key"`
}

// recipe is the on-disk JSON shape `relauto fit` consumes.
type recipe struct {
	ProjectName  string `json:"project_name"`
	PipelineName string `json:"pipeline_name"`

	PopulationFile  string            `json:"population_file"`
	PopulationName  string            `json:"population_name"`
	PopulationRoles map[string]string `json:"population_roles"`

	Peripherals []edgeSpec `json:"peripherals"`

	Targets               []string `json:"targets"`
	IncludeCategoricals   bool     `json:"include_categoricals"`
	ShareSelectedFeatures float64  `json:"share_selected_features"`
	PoolSize              int      `json:"pool_size"`
	AllowHTTP             bool     `json:"allow_http"`

	Preprocessors    []stepSpec `json:"preprocessors"`
	FeatureLearners  []stepSpec `json:"feature_learners"`
	FeatureSelectors []stepSpec `json:"feature_selectors"`
	Predictors       []stepSpec `json:"predictors"`
}

func loadRecipe(path string) (*recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("relauto: read recipe %q: %w", path, err)
	}
	var r recipe
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("relauto: parse recipe %q: %w", path, err)
	}
	return &r, nil
}

func parseRelationship(s string) schema.Relationship {
	switch s {
	case "many_to_one":
		return schema.ManyToOne
	case "one_to_many":
		return schema.OneToMany
	case "one_to_one":
		return schema.OneToOne
	case "propositionalization":
		return schema.Propositionalization
	default:
		return schema.ManyToMany
	}
}

// dataframeSet bundles the population and peripheral frames read off disk
// for a single fit/transform/score invocation.
type dataframeSet struct {
	Population  *dataframe.DataFrame
	Peripherals staging.Tables
}

// applyRoles tags df's columns for staging (the string role df carries
// itself, read back by buildSchema) given a role map keyed by column name.
func applyRoles(df *dataframe.DataFrame, roles map[string]string) {
	for col, roleStr := range roles {
		df.SetRole(col, roleStr)
	}
}

// buildDataModel assembles the DataModel join tree the recipe describes,
// independent of whether the backing CSVs have been read yet (sql.go only
// needs the tree; buildConfig needs it alongside the staged frames).
func buildDataModel(r *recipe) *schema.DataModel {
	model := schema.New(r.PopulationName)
	for col, roleStr := range r.PopulationRoles {
		model.Roles[col] = schema.ParseRole(roleStr)
	}
	for _, e := range r.Peripherals {
		joined := schema.New(e.TableName)
		for col, roleStr := range e.Roles {
			joined.Roles[col] = schema.ParseRole(roleStr)
		}
		model.AddJoin(joined, parseRelationship(e.Relationship), e.JoinKey, e.OtherJoinKey)
	}
	return model
}

// buildConfig reads every referenced CSV, assembles the DataModel and
// staging.Tables, and wires the recipe's step specs into Config factories.
func buildConfig(r *recipe) (*pipeline.Config, *dataframeSet, error) {
	popDF, err := csv.ReadCSV(r.PopulationFile)
	if err != nil {
		return nil, nil, fmt.Errorf("relauto: read population %q: %w", r.PopulationFile, err)
	}
	popDF.SetName(r.PopulationName)
	applyRoles(popDF, r.PopulationRoles)

	model := buildDataModel(r)
	peripherals := staging.Tables{}

	for _, e := range r.Peripherals {
		df, err := csv.ReadCSV(e.File)
		if err != nil {
			return nil, nil, fmt.Errorf("relauto: read peripheral %q: %w", e.File, err)
		}
		df.SetName(e.TableName)
		applyRoles(df, e.Roles)
		peripherals[e.TableName] = df
	}

	if err := model.Validate(); err != nil {
		return nil, nil, fmt.Errorf("relauto: invalid data model: %w", err)
	}

	preprocessors := make([]pipeline.PreprocessorFactory, 0, len(r.Preprocessors))
	for _, s := range r.Preprocessors {
		factory, err := buildPreprocessorFactory(s)
		if err != nil {
			return nil, nil, err
		}
		preprocessors = append(preprocessors, factory)
	}

	learners := make([]pipeline.FeatureLearnerFactory, 0, len(r.FeatureLearners))
	for _, s := range r.FeatureLearners {
		factory, err := buildFeatureLearnerFactory(s)
		if err != nil {
			return nil, nil, err
		}
		learners = append(learners, factory)
	}

	selectors := make([]pipeline.PredictorFactory, 0, len(r.FeatureSelectors))
	for _, s := range r.FeatureSelectors {
		factory, err := buildPredictorFactory(s)
		if err != nil {
			return nil, nil, err
		}
		selectors = append(selectors, factory)
	}

	predictors := make([]pipeline.PredictorFactory, 0, len(r.Predictors))
	for _, s := range r.Predictors {
		factory, err := buildPredictorFactory(s)
		if err != nil {
			return nil, nil, err
		}
		predictors = append(predictors, factory)
	}

	cfg := &pipeline.Config{
		ProjectName:           r.ProjectName,
		PipelineName:          r.PipelineName,
		DataModel:             model,
		Targets:               r.Targets,
		IncludeCategoricals:   r.IncludeCategoricals,
		ShareSelectedFeatures: r.ShareSelectedFeatures,
		Preprocessors:         preprocessors,
		FeatureLearners:       learners,
		FeatureSelectors:      selectors,
		Predictors:            predictors,
		AllowHTTP:             r.AllowHTTP,
		PoolSize:              r.PoolSize,
	}
	return cfg, &dataframeSet{Population: popDF, Peripherals: peripherals}, nil
}

func buildPreprocessorFactory(s stepSpec) (pipeline.PreprocessorFactory, error) {
	switch s.Type {
	case "category_trimmer":
		var p struct {
			MinFrequency int      `json:"min_frequency"`
			Columns      []string `json:"columns"`
		}
		if err := json.Unmarshal(s.Params, &p); err != nil {
			return nil, fmt.Errorf("relauto: category_trimmer params: %w", err)
		}
		return func(deps []fingerprint.Fingerprint) preprocessor.Preprocessor {
			return preprocessor.NewCategoryTrimmer(dependencyFingerprint(deps), p.MinFrequency, p.Columns)
		}, nil
	case "email_domain":
		return func(deps []fingerprint.Fingerprint) preprocessor.Preprocessor {
			return preprocessor.NewEMailDomain(dependencyFingerprint(deps))
		}, nil
	case "imputation":
		var p struct {
			Strategy string   `json:"strategy"`
			Columns  []string `json:"columns"`
		}
		if err := json.Unmarshal(s.Params, &p); err != nil {
			return nil, fmt.Errorf("relauto: imputation params: %w", err)
		}
		return func(deps []fingerprint.Fingerprint) preprocessor.Preprocessor {
			return preprocessor.NewImputation(dependencyFingerprint(deps), preprocessor.ImputationStrategy(p.Strategy), p.Columns)
		}, nil
	case "seasonal":
		return func(deps []fingerprint.Fingerprint) preprocessor.Preprocessor {
			return preprocessor.NewSeasonal(dependencyFingerprint(deps))
		}, nil
	case "substring":
		var p struct {
			Begin   int      `json:"begin"`
			Length  int      `json:"length"`
			Columns []string `json:"columns"`
		}
		if err := json.Unmarshal(s.Params, &p); err != nil {
			return nil, fmt.Errorf("relauto: substring params: %w", err)
		}
		return func(deps []fingerprint.Fingerprint) preprocessor.Preprocessor {
			return preprocessor.NewSubstring(dependencyFingerprint(deps), p.Begin, p.Length, p.Columns)
		}, nil
	case "text_field_splitter":
		return func(deps []fingerprint.Fingerprint) preprocessor.Preprocessor {
			return preprocessor.NewTextFieldSplitter(dependencyFingerprint(deps))
		}, nil
	default:
		return nil, fmt.Errorf("relauto: unknown preprocessor type %q", s.Type)
	}
}

// dependencyFingerprint folds a preprocessor's dependency set into the
// single fingerprint every concrete constructor takes, the same
// build-history wrapping the orchestrator itself uses between stages.
func dependencyFingerprint(deps []fingerprint.Fingerprint) fingerprint.Fingerprint {
	return fingerprint.PipelineBuildHistory(deps, nil)
}

func buildFeatureLearnerFactory(s stepSpec) (pipeline.FeatureLearnerFactory, error) {
	switch s.Type {
	case "fastprop":
		var p featurelearner.Hyperparams
		if err := json.Unmarshal(s.Params, &p); err != nil {
			return nil, fmt.Errorf("relauto: fastprop params: %w", err)
		}
		return func(deps []fingerprint.Fingerprint, peripheral []string, placeholder *schema.Placeholder, targetNum int) featurelearner.FeatureLearner {
			return featurelearner.NewFastProp(p, deps, peripheral, placeholder, targetNum)
		}, nil
	default:
		return nil, fmt.Errorf("relauto: unknown feature learner type %q", s.Type)
	}
}

func buildPredictorFactory(s stepSpec) (pipeline.PredictorFactory, error) {
	switch s.Type {
	case "linear_regression":
		var p struct {
			FitIntercept bool `json:"fit_intercept"`
		}
		if err := json.Unmarshal(s.Params, &p); err != nil {
			return nil, fmt.Errorf("relauto: linear_regression params: %w", err)
		}
		return func(fields fingerprint.PredictorHyperparams, deps []fingerprint.Fingerprint) predictor.Predictor {
			return predictor.NewLinearRegression(p.FitIntercept, fields, deps)
		}, nil
	case "logistic_regression":
		var p struct {
			Penalty string  `json:"penalty"`
			C       float64 `json:"c"`
			MaxIter int     `json:"max_iter"`
		}
		if err := json.Unmarshal(s.Params, &p); err != nil {
			return nil, fmt.Errorf("relauto: logistic_regression params: %w", err)
		}
		return func(fields fingerprint.PredictorHyperparams, deps []fingerprint.Fingerprint) predictor.Predictor {
			return predictor.NewLogisticRegression(p.Penalty, p.C, p.MaxIter, fields, deps)
		}, nil
	case "xgboost":
		var p struct {
			NumTrees         int     `json:"num_trees"`
			MaxDepth         int     `json:"max_depth"`
			LearningRate     float64 `json:"learning_rate"`
			IsClassification bool    `json:"is_classification"`
		}
		if err := json.Unmarshal(s.Params, &p); err != nil {
			return nil, fmt.Errorf("relauto: xgboost params: %w", err)
		}
		return func(fields fingerprint.PredictorHyperparams, deps []fingerprint.Fingerprint) predictor.Predictor {
			return predictor.NewXGBoost(p.NumTrees, p.MaxDepth, p.LearningRate, p.IsClassification, fields, deps)
		}, nil
	default:
		return nil, fmt.Errorf("relauto: unknown predictor type %q", s.Type)
	}
}
