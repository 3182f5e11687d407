package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/relauto/engine/core"
	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/fingerprint"
	"github.com/relauto/engine/predictor"
	"github.com/relauto/engine/predictorimpl"
	"github.com/relauto/engine/schema"
	"github.com/relauto/engine/sqlgen"
	"github.com/relauto/engine/staging"
)

// pipelineJSON is the top-level manifest written as pipeline.json, grounded
// on features/serialization.go's SerializedPipeline shape (metadata +
// structured body, indented JSON, os.Create/os.Open directly). It carries
// every fingerprint set so a reloaded pipeline's cache hits line up with a
// fresh Fit call's, plus both schema pairs and the placeholder's canonical
// encoding for transform-time bookkeeping.
type pipelineJSON struct {
	Version      string `json:"version"`
	CreationTime string `json:"creation_time"`
	AllowHTTP    bool   `json:"allow_http"`
	Targets      []string `json:"targets"`

	PlaceholderEncoding string `json:"placeholder_encoding"`

	OriginalPopulationSchema   schemaJSON            `json:"original_population_schema"`
	ModifiedPopulationSchema   schemaJSON            `json:"modified_population_schema"`
	OriginalPeripheralSchemata map[string]schemaJSON `json:"original_peripheral_schemata"`
	ModifiedPeripheralSchemata map[string]schemaJSON `json:"modified_peripheral_schemata"`

	PreprocessorFingerprints []string            `json:"preprocessor_fingerprints"`
	FLFingerprints           map[string][]string `json:"fl_fingerprints"`
	FSFingerprints           map[string][]string `json:"fs_fingerprints"`
	PredFingerprints         map[string][]string `json:"pred_fingerprints"`

	PredictorTypes map[string][]string `json:"predictor_types"`
}

type schemaJSON struct {
	Name    string              `json:"name"`
	Columns map[string][]string `json:"columns"`
}

func encodeSchema(s *schema.Schema) schemaJSON {
	cols := make(map[string][]string, len(s.Columns))
	for role, names := range s.Columns {
		cols[role.String()] = names
	}
	return schemaJSON{Name: s.Name, Columns: cols}
}

func decodeSchema(j schemaJSON) *schema.Schema {
	s := schema.NewSchema(j.Name)
	for roleStr, names := range j.Columns {
		role := schema.ParseRole(roleStr)
		for _, name := range names {
			s.Add(role, name)
		}
	}
	return s
}

func fpStrings(fps []fingerprint.Fingerprint) []string {
	out := make([]string, len(fps))
	for i, fp := range fps {
		out[i] = fp.String()
	}
	return out
}

func fpStringsByTarget(m map[string][]fingerprint.Fingerprint) map[string][]string {
	out := make(map[string][]string, len(m))
	for target, fps := range m {
		out[target] = fpStrings(fps)
	}
	return out
}

// Save persists fp to dir per spec.md §4.11's directory layout: pipeline.json
// (the manifest above), scores.json (the append-only History), feature-
// selector-impl.json / predictor-impl.json (the two PredictorImpl column
// layouts), and one predictor-<target>-<index>.json per fitted predictor via
// its own Save method. Preprocessors and feature learners carry no Save/Load
// in their capability interfaces (grounded on the features.Estimator/
// Transformer contract, which has none either) — see DESIGN.md's persistence
// Open Question entry for why Load re-fits them instead of deserializing
// them. Writes to a fresh sibling temp directory first, then os.Rename into
// place, so a crash mid-write never leaves a half-written pipeline directory
// at dir.
func Save(fp *FittedPipeline, dir string) error {
	parent := filepath.Dir(dir)
	tmp, err := os.MkdirTemp(parent, ".relauto-pipeline-*")
	if err != nil {
		return fmt.Errorf("pipeline: save: %w", core.ErrIO)
	}
	defer os.RemoveAll(tmp)

	manifest := pipelineJSON{
		Version:                    "1",
		CreationTime:               fp.CreationTime,
		AllowHTTP:                  fp.AllowHTTP,
		Targets:                    fp.Config.Targets,
		PlaceholderEncoding:        fp.Placeholder.Encode(),
		OriginalPopulationSchema:   encodeSchema(fp.OriginalPopulationSchema),
		ModifiedPopulationSchema:   encodeSchema(fp.ModifiedPopulationSchema),
		OriginalPeripheralSchemata: encodeSchemata(fp.OriginalPeripheralSchemata),
		ModifiedPeripheralSchemata: encodeSchemata(fp.ModifiedPeripheralSchemata),
		PreprocessorFingerprints:   fpStrings(fp.PreprocessorFingerprints),
		FLFingerprints:             fpStringsByTarget(fp.FLFingerprints),
		FSFingerprints:             fpStringsByTarget(fp.FSFingerprints),
		PredFingerprints:           fpStringsByTarget(fp.PredFingerprints),
		PredictorTypes:             predictorTypesByTarget(fp.Predictors),
	}
	if err := writeJSON(filepath.Join(tmp, "pipeline.json"), manifest); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(tmp, "scores.json"), fp.History); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(tmp, "feature-selector-impl.json"), fp.FeatureSelectorImpl); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(tmp, "predictor-impl.json"), fp.PredictorImpl); err != nil {
		return err
	}

	for target, preds := range fp.Predictors {
		for i, p := range preds {
			path := filepath.Join(tmp, fmt.Sprintf("predictor-%s-%d.json", target, i))
			if err := p.Save(path); err != nil {
				return fmt.Errorf("pipeline: save: predictor %q[%d]: %w", target, i, err)
			}
		}
	}

	if err := writeSQLDirectory(tmp, fp); err != nil {
		return fmt.Errorf("pipeline: save: %w", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("pipeline: save: clearing %q: %w", dir, core.ErrIO)
	}
	if err := os.Rename(tmp, dir); err != nil {
		return fmt.Errorf("pipeline: save: %w", core.ErrIO)
	}
	return nil
}

// Load reconstructs a FittedPipeline by re-fitting preprocessors, feature
// learners, and feature selectors from cfg against population/peripherals
// (fast relative to predictor training, and the only option given
// preprocessors/feature learners carry no Save/Load), then loading every
// predictor's persisted weights from dir instead of re-running its (often
// much more expensive, e.g. XGBoost's boosting loop) Fit.
func Load(ctx context.Context, o *Orchestrator, cfg *Config, dir string, population *dataframe.DataFrame, peripherals staging.Tables) (*FittedPipeline, error) {
	manifest := pipelineJSON{}
	if err := readJSON(filepath.Join(dir, "pipeline.json"), &manifest); err != nil {
		return nil, err
	}
	var history []Scores
	if err := readJSON(filepath.Join(dir, "scores.json"), &history); err != nil {
		return nil, err
	}

	proj := o.PM.project(cfg.ProjectName)

	placeholder, stagedPop, stagedPeripherals, err := staging.NewRewriter().Stage(population, peripherals, cfg.DataModel)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load: stage: %w", err)
	}
	dfFingerprints := collectDataFrameFingerprints(cfg.DataModel, stagedPop, stagedPeripherals)

	preprocessors, preprocessorFPs, stagedPop, stagedPeripherals, err := o.fitPreprocessors(proj, cfg, dfFingerprints, stagedPop, stagedPeripherals)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load: preprocessors: %w", err)
	}

	peripheralNames := sortedTableNames(stagedPeripherals)
	learners, learnerFPs, err := o.fitFeatureLearners(ctx, proj, cfg, preprocessorFPs, stagedPop, stagedPeripherals, peripheralNames, placeholder)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load: feature learners: %w", err)
	}
	banks, err := transformFeatureBanks(learners, stagedPop, stagedPeripherals)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load: feature-learner transform: %w", err)
	}

	var selectorImpl predictorimpl.PredictorImpl
	if err := readJSON(filepath.Join(dir, "feature-selector-impl.json"), &selectorImpl); err != nil {
		return nil, err
	}
	// fitSelectorsAndPrune re-fits the feature selectors (they carry no
	// Save/Load of their own) but its pruned layout is discarded in favor of
	// predImpl below, the one actually persisted alongside the predictors
	// that were fit against it — re-deriving the prune here could disagree
	// with it if ShareSelectedFeatures' pruning were ever non-deterministic.
	selectors, selectorFPs, _, err := o.fitSelectorsAndPrune(cfg, proj, &selectorImpl, banks, learnerFPs, stagedPop)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load: feature selectors: %w", err)
	}

	var predImpl predictorimpl.PredictorImpl
	if err := readJSON(filepath.Join(dir, "predictor-impl.json"), &predImpl); err != nil {
		return nil, err
	}

	predictors := make(map[string][]predictor.Predictor, len(cfg.Targets))
	predFPs := make(map[string][]fingerprint.Fingerprint, len(cfg.Targets))
	for _, target := range cfg.Targets {
		types := manifest.PredictorTypes[target]
		preds := make([]predictor.Predictor, len(types))
		for i, factory := range cfg.Predictors {
			if i >= len(types) {
				break
			}
			fields := fingerprint.PredictorHyperparams{
				Autofeatures:        predImpl.Autofeatures,
				CategoricalColnames: predImpl.CategoricalColnames,
				NumericalColnames:   predImpl.NumericalColnames,
			}
			deps := append(append([]fingerprint.Fingerprint(nil), learnerFPs[target]...), selectorFPs[target]...)
			p := factory(fields, deps)
			path := filepath.Join(dir, fmt.Sprintf("predictor-%s-%d.json", target, i))
			if err := p.Load(path); err != nil {
				return nil, fmt.Errorf("pipeline: load: predictor %q[%d]: %w", target, i, err)
			}
			preds[i] = p
			predFPs[target] = append(predFPs[target], p.Fingerprint())
		}
		predictors[target] = preds
	}

	return &FittedPipeline{
		Config:                     cfg,
		Placeholder:                placeholder,
		OriginalPopulationSchema:   decodeSchema(manifest.OriginalPopulationSchema),
		ModifiedPopulationSchema:   decodeSchema(manifest.ModifiedPopulationSchema),
		OriginalPeripheralSchemata: decodeSchemata(manifest.OriginalPeripheralSchemata),
		ModifiedPeripheralSchemata: decodeSchemata(manifest.ModifiedPeripheralSchemata),
		Preprocessors:              preprocessors,
		PreprocessorFingerprints:   preprocessorFPs,
		FeatureLearners:            learners,
		FLFingerprints:             learnerFPs,
		FeatureSelectorImpl:        &selectorImpl,
		FeatureSelectors:           selectors,
		FSFingerprints:             selectorFPs,
		PredictorImpl:              &predImpl,
		Predictors:                 predictors,
		PredFingerprints:           predFPs,
		History:                    history,
		CreationTime:               manifest.CreationTime,
		AllowHTTP:                  manifest.AllowHTTP,
	}, nil
}

func encodeSchemata(m map[string]*schema.Schema) map[string]schemaJSON {
	out := make(map[string]schemaJSON, len(m))
	for name, s := range m {
		out[name] = encodeSchema(s)
	}
	return out
}

func decodeSchemata(m map[string]schemaJSON) map[string]*schema.Schema {
	out := make(map[string]*schema.Schema, len(m))
	for name, j := range m {
		out[name] = decodeSchema(j)
	}
	return out
}

func predictorTypesByTarget(m map[string][]predictor.Predictor) map[string][]string {
	out := make(map[string][]string, len(m))
	for target, preds := range m {
		types := make([]string, len(preds))
		for i, p := range preds {
			types[i] = p.Type()
		}
		out[target] = types
	}
	return out
}

// writeSQLDirectory transpiles fp's staging tables, preprocessors, and
// feature learners into the SQL/ subdirectory Save's directory layout
// requires: one staging.sql (the join-tree's CREATE TABLE statements, via
// sqlgen.Dialect.MakeStagingTables), one preprocessor-<i>.sql per
// preprocessor whose ToSQL output is non-empty, one
// feature-learner-<target>-<l>.sql per (target, learner) pair, and one
// predictor-input-<target>.sql per target materializing the condensed
// autofeature/numerical/categorical columns a predictor reads (via
// sqlgen.Dialect.MakeSQL). The transpilation always targets SQLite, the
// dialect the `relauto sql` CLI command also defaults to; a future
// multi-dialect Save would thread a dialect choice through Config instead.
func writeSQLDirectory(dir string, fp *FittedPipeline) error {
	sqlDir := filepath.Join(dir, "SQL")
	if err := os.Mkdir(sqlDir, 0o755); err != nil {
		return fmt.Errorf("pipeline: sql dir: %w", core.ErrIO)
	}

	dialect := sqlgen.SQLite{}
	needsTargets := len(fp.Config.Targets) > 0

	staging := dialect.MakeStagingTables(needsTargets, needsTargets, fp.OriginalPopulationSchema, fp.OriginalPeripheralSchemata)
	if err := writeSQLFile(filepath.Join(sqlDir, "staging.sql"), staging); err != nil {
		return err
	}

	prefix := sqlgen.PopulationSuffix + "."
	for i, p := range fp.Preprocessors {
		stmts, err := p.ToSQL(prefix)
		if err != nil {
			return fmt.Errorf("preprocessor %d: %w", i, err)
		}
		if len(stmts) == 0 {
			continue
		}
		path := filepath.Join(sqlDir, fmt.Sprintf("preprocessor-%d.sql", i))
		if err := writeSQLFile(path, stmts); err != nil {
			return err
		}
	}

	for _, target := range fp.Config.Targets {
		for l, learner := range fp.FeatureLearners[target] {
			stmts, err := learner.ToSQL(fp.Config.IncludeCategoricals, needsTargets, false, dialect.Name(), prefix)
			if err != nil {
				return fmt.Errorf("feature learner %d target %q: %w", l, target, err)
			}
			if len(stmts) == 0 {
				continue
			}
			path := filepath.Join(sqlDir, fmt.Sprintf("feature-learner-%s-%d.sql", target, l))
			if err := writeSQLFile(path, stmts); err != nil {
				return err
			}
		}

		var autofeatureNames []string
		for l, indices := range fp.PredictorImpl.Autofeatures {
			for _, idx := range indices {
				autofeatureNames = append(autofeatureNames, featureColumnName(target, l, idx))
			}
		}
		stmt := dialect.MakeSQL(target+"_features", autofeatureNames, nil, []string{target},
			fp.PredictorImpl.CategoricalColnames, fp.PredictorImpl.NumericalColnames)
		path := filepath.Join(sqlDir, fmt.Sprintf("predictor-input-%s.sql", target))
		if err := writeSQLFile(path, []string{stmt}); err != nil {
			return err
		}
	}

	return nil
}

func writeSQLFile(path string, statements []string) error {
	content := strings.Join(statements, "\n\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("pipeline: write %q: %w", path, core.ErrIO)
	}
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pipeline: write %q: %w", path, core.ErrIO)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("pipeline: encode %q: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("pipeline: read %q: %w", path, core.ErrIO)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("pipeline: decode %q: %w", path, err)
	}
	return nil
}
