package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/relauto/engine/core"
	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/featurelearner"
	"github.com/relauto/engine/fingerprint"
	"github.com/relauto/engine/internal/parallel"
	"github.com/relauto/engine/predictor"
	"github.com/relauto/engine/predictorimpl"
	"github.com/relauto/engine/preprocessor"
	"github.com/relauto/engine/schema"
	"github.com/relauto/engine/series"
	"github.com/relauto/engine/staging"
)

// Orchestrator implements the fingerprint-cached fit/transform state
// machine of spec.md §4.8-§4.9 against one named project's tracker set.
type Orchestrator struct {
	PM       *ProjectManager
	Logger   Logger
	PoolSize int
}

// NewOrchestrator creates an Orchestrator bound to pm. A nil logger falls
// back to NoopLogger; poolSize is forwarded to internal/parallel.NewPool for
// every thread-safe fan-out this orchestrator performs.
func NewOrchestrator(pm *ProjectManager, logger Logger, poolSize int) *Orchestrator {
	if logger == nil {
		logger = NoopLogger{}
	}
	return &Orchestrator{PM: pm, Logger: logger, PoolSize: poolSize}
}

// Fit runs the fit state machine of spec.md §4.8: stage the join tree, fit
// preprocessors, reconstruct schemata, fit feature learners per target,
// fit feature selectors and prune their layout into the predictor's own,
// fit predictors, score, and assemble the fitted artifact. The fit body
// runs under the project's read lock (spec.md §5's "weak write lock"); only
// the final registry insert briefly takes the write lock.
func (o *Orchestrator) Fit(ctx context.Context, cfg *Config, population *dataframe.DataFrame, peripherals staging.Tables) (*FittedPipeline, []Scores, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, nil, fmt.Errorf("pipeline: fit: no targets configured: %w", core.ErrConfiguration)
	}

	proj := o.PM.project(cfg.ProjectName)
	proj.mu.RLock()
	unlocked := false
	unlock := func() {
		if !unlocked {
			proj.mu.RUnlock()
			unlocked = true
		}
	}
	defer unlock()

	// Step 1: stage the join tree into a canonical Placeholder plus
	// rewritten population/peripheral tables.
	placeholder, stagedPop, stagedPeripherals, err := staging.NewRewriter().Stage(population, peripherals, cfg.DataModel)
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline: fit: stage: %w", err)
	}
	o.Logger.Info("staged join tree", "population", stagedPop.Name(), "peripherals", len(stagedPeripherals))

	dfFingerprints := collectDataFrameFingerprints(cfg.DataModel, stagedPop, stagedPeripherals)
	originalPopSchema := buildOriginalSchema(stagedPop)
	originalPeripheralSchemata := buildOriginalSchemata(stagedPeripherals)

	// Steps 2-3: fit preprocessors (ordinary first, mapping-style last),
	// short-circuiting on a tracker hit.
	preprocessors, preprocessorFPs, stagedPop, stagedPeripherals, err := o.fitPreprocessors(proj, cfg, dfFingerprints, stagedPop, stagedPeripherals)
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline: fit: preprocessors: %w", err)
	}

	modifiedPopSchema := buildModifiedSchema(stagedPop)
	modifiedPeripheralSchemata := buildModifiedSchemata(stagedPeripherals)
	peripheralNames := sortedTableNames(stagedPeripherals)

	// Steps 4-5: fit feature learners per target, then materialize each
	// one's feature bank against the staged tables.
	learners, learnerFPs, err := o.fitFeatureLearners(ctx, proj, cfg, preprocessorFPs, stagedPop, stagedPeripherals, peripheralNames, placeholder)
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline: fit: feature learners: %w", err)
	}
	banks, err := transformFeatureBanks(learners, stagedPop, stagedPeripherals)
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline: fit: feature-learner transform: %w", err)
	}

	// Step 6: build the feature-selector's column layout from the first
	// target's learner replicas — NumFeatures() does not vary across
	// per-target replicas of the same slot, only the values do.
	learnerNumFeatures := make([]int, len(cfg.FeatureLearners))
	for l, learner := range learners[cfg.Targets[0]] {
		learnerNumFeatures[l] = learner.NumFeatures()
	}
	selectorImpl, err := predictorimpl.NewSelectorImpl(stagedPop, learnerNumFeatures, cfg.IncludeCategoricals)
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline: fit: build selector impl: %w", err)
	}

	// Steps 7-8: fit feature selectors per target against the shared
	// selector layout, then prune the combined importance ranking into the
	// single predictor layout every target's predictors share.
	selectors, selectorFPs, predImpl, err := o.fitSelectorsAndPrune(cfg, proj, selectorImpl, banks, learnerFPs, stagedPop)
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline: fit: feature selectors: %w", err)
	}

	// Step 9: fit predictors against the pruned layout.
	predictors, predFPs, err := o.fitPredictors(cfg, proj, predImpl, banks, learnerFPs, selectorFPs, stagedPop)
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline: fit: predictors: %w", err)
	}

	// Step 10: score every target that has at least one predictor.
	var history []Scores
	for _, target := range cfg.Targets {
		preds := predictors[target]
		if len(preds) == 0 {
			continue
		}
		xCat, xNum, _, err := buildFeatureMatrix(stagedPop, predImpl, banks[target])
		if err != nil {
			return nil, nil, fmt.Errorf("pipeline: fit: score %q: %w", target, err)
		}
		yTrue, err := targetColumn(stagedPop, target)
		if err != nil {
			return nil, nil, fmt.Errorf("pipeline: fit: score %q: %w", target, err)
		}
		yPred, err := averagePredictions(preds, xCat, xNum)
		if err != nil {
			return nil, nil, fmt.Errorf("pipeline: fit: score %q: %w", target, err)
		}
		sc, err := ComputeScores(target, preds[0].IsClassification(), yTrue, yPred)
		if err != nil {
			return nil, nil, fmt.Errorf("pipeline: fit: score %q: %w", target, err)
		}
		history = append(history, sc)
	}

	// Step 11: assemble and register the fitted artifact.
	fp := &FittedPipeline{
		Config:                     cfg,
		Placeholder:                placeholder,
		OriginalPopulationSchema:   originalPopSchema,
		ModifiedPopulationSchema:   modifiedPopSchema,
		OriginalPeripheralSchemata: originalPeripheralSchemata,
		ModifiedPeripheralSchemata: modifiedPeripheralSchemata,
		Preprocessors:              preprocessors,
		PreprocessorFingerprints:   preprocessorFPs,
		FeatureLearners:            learners,
		FLFingerprints:             learnerFPs,
		FeatureSelectorImpl:        selectorImpl,
		FeatureSelectors:           selectors,
		FSFingerprints:             selectorFPs,
		PredictorImpl:              predImpl,
		Predictors:                 predictors,
		PredFingerprints:           predFPs,
		History:                    history,
		CreationTime:               time.Now().UTC().Format(time.RFC3339),
		AllowHTTP:                  cfg.AllowHTTP,
	}

	unlock()
	proj.registerPipeline(cfg.PipelineName, fp)
	return fp, history, nil
}

// Transform runs the transform state machine of spec.md §4.9: stage the
// join tree, replay preprocessors and feature learners (fit-free), bake
// the resulting autofeatures into the population frame (short-circuiting
// on a data-frame tracker hit), and optionally predict and/or score.
func (o *Orchestrator) Transform(ctx context.Context, fp *FittedPipeline, population *dataframe.DataFrame, peripherals staging.Tables, predict, score bool) (*dataframe.DataFrame, []Scores, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	cfg := fp.Config
	proj := o.PM.project(cfg.ProjectName)

	dfFingerprints := collectDataFrameFingerprints(cfg.DataModel, population, peripherals)
	cacheKey := fingerprint.PipelineBuildHistory(allFeatureSelectorFingerprints(fp, cfg), dfFingerprints)

	assembled, ok := proj.dataFrameTracker.Retrieve(cacheKey)
	if !ok {
		_, stagedPop, stagedPeripherals, err := staging.NewRewriter().Stage(population, peripherals, cfg.DataModel)
		if err != nil {
			return nil, nil, fmt.Errorf("pipeline: transform: stage: %w", err)
		}

		for _, p := range fp.Preprocessors {
			transformed, err := p.Transform(stagedPop)
			if err != nil {
				return nil, nil, fmt.Errorf("pipeline: transform: preprocessor: %w", err)
			}
			stagedPop = transformed
			if producer, ok := p.(preprocessor.PeripheralProducer); ok {
				for name, df := range producer.Peripherals() {
					stagedPeripherals[name] = df
				}
			}
		}

		assembled = stagedPop.Copy()
		for _, target := range cfg.Targets {
			for l, learner := range fp.FeatureLearners[target] {
				bank, err := learner.Transform(featurelearner.TransformParams{Population: stagedPop, Peripherals: stagedPeripherals})
				if err != nil {
					return nil, nil, fmt.Errorf("pipeline: transform: feature learner %d target %q: %w", l, target, err)
				}
				for _, idx := range fp.PredictorImpl.Autofeatures[l] {
					if idx < 0 || idx >= len(bank) {
						continue
					}
					name := featureColumnName(target, l, idx)
					if assembled.HasColumn(name) {
						continue
					}
					s, err := singleColumn(name, bank[idx].Values)
					if err != nil {
						return nil, nil, err
					}
					assembled = assembled.WithColumn(name, s)
				}
			}
		}
		assembled.CopyMetadataFrom(stagedPop)
		proj.dataFrameTracker.Add(cacheKey, assembled)
	}

	if !predict && !score {
		return assembled, nil, nil
	}

	var scores []Scores
	for _, target := range cfg.Targets {
		preds := fp.Predictors[target]
		if len(preds) == 0 {
			continue
		}
		xCat, xNum, err := buildTransformMatrix(assembled, fp.PredictorImpl, target)
		if err != nil {
			return nil, nil, fmt.Errorf("pipeline: transform: predict %q: %w", target, err)
		}
		yPred, err := averagePredictions(preds, xCat, xNum)
		if err != nil {
			return nil, nil, fmt.Errorf("pipeline: transform: predict %q: %w", target, err)
		}
		if predict {
			predCol := target + "_predicted"
			s, err := singleColumn(predCol, yPred)
			if err != nil {
				return nil, nil, err
			}
			assembled = assembled.WithColumn(predCol, s)
		}
		if score && assembled.HasColumn(target) {
			yTrue, err := targetColumn(assembled, target)
			if err != nil {
				return nil, nil, fmt.Errorf("pipeline: transform: score %q: %w", target, err)
			}
			sc, err := ComputeScores(target, preds[0].IsClassification(), yTrue, yPred)
			if err != nil {
				return nil, nil, fmt.Errorf("pipeline: transform: score %q: %w", target, err)
			}
			scores = append(scores, sc)
		}
	}

	return assembled, scores, nil
}

// fitPreprocessors instantiates every preprocessor factory against deps,
// stable-partitions mapping-style preprocessors after ordinary ones (spec.md
// §4.8 step 3), then fits (or reuses a tracker hit for) and transforms each
// in turn, threading the working population/peripheral tables through.
//
// Every factory is instantiated against the same df_fingerprints dependency
// set rather than a cumulative per-preprocessor chain: true step-by-step
// dependency chaining would need each preprocessor's final fit order to be
// known before any fingerprint could be built, and that order itself
// depends on each preprocessor's Type() — a chicken-and-egg loop this
// simplification avoids. See DESIGN.md's Open Question entry.
func (o *Orchestrator) fitPreprocessors(proj *project, cfg *Config, deps []fingerprint.Fingerprint, pop *dataframe.DataFrame, peripherals staging.Tables) ([]preprocessor.Preprocessor, []fingerprint.Fingerprint, *dataframe.DataFrame, staging.Tables, error) {
	instances := make([]preprocessor.Preprocessor, len(cfg.Preprocessors))
	for i, factory := range cfg.Preprocessors {
		instances[i] = factory(deps)
	}
	sort.SliceStable(instances, func(i, j int) bool {
		return instances[i].Type() == preprocessor.TypeOrdinary && instances[j].Type() == preprocessor.TypeMapping
	})

	fps := make([]fingerprint.Fingerprint, len(instances))
	for i, p := range instances {
		fp := p.Fingerprint()
		fps[i] = fp
		if cached, ok := proj.preprocessorTracker.Retrieve(fp); ok {
			p = cached
			instances[i] = p
		} else {
			if err := p.Fit(pop); err != nil {
				return nil, nil, nil, nil, err
			}
			proj.preprocessorTracker.Add(fp, p)
		}
		transformed, err := p.Transform(pop)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		pop = transformed
		if producer, ok := p.(preprocessor.PeripheralProducer); ok {
			for name, df := range producer.Peripherals() {
				peripherals[name] = df
			}
		}
	}
	return instances, fps, pop, peripherals, nil
}

// fitFeatureLearners fits every (slot, target) feature-learner instance,
// replicating once per target only when the learner reports
// SupportsMultipleTargets() == false, and fanning the not-yet-cached,
// thread-safe fits out onto a worker pool (spec.md §4.8 step 4, §13).
func (o *Orchestrator) fitFeatureLearners(ctx context.Context, proj *project, cfg *Config, deps []fingerprint.Fingerprint, pop *dataframe.DataFrame, peripherals staging.Tables, peripheralNames []string, placeholder *schema.Placeholder) (map[string][]featurelearner.FeatureLearner, map[string][]fingerprint.Fingerprint, error) {
	learners := make(map[string][]featurelearner.FeatureLearner, len(cfg.Targets))
	fps := make(map[string][]fingerprint.Fingerprint, len(cfg.Targets))
	for _, t := range cfg.Targets {
		learners[t] = make([]featurelearner.FeatureLearner, len(cfg.FeatureLearners))
		fps[t] = make([]fingerprint.Fingerprint, len(cfg.FeatureLearners))
	}

	type job struct {
		slot, targetIdx int
		learner         featurelearner.FeatureLearner
		fp              fingerprint.Fingerprint
		cached          bool
	}

	shared := make([]featurelearner.FeatureLearner, len(cfg.FeatureLearners))
	sharedFP := make([]fingerprint.Fingerprint, len(cfg.FeatureLearners))
	var sequential, parallelJobs []job

	for slot, factory := range cfg.FeatureLearners {
		for ti := range cfg.Targets {
			probe := factory(deps, peripheralNames, placeholder, ti)
			if probe.SupportsMultipleTargets() && shared[slot] != nil {
				learners[cfg.Targets[ti]][slot] = shared[slot]
				fps[cfg.Targets[ti]][slot] = sharedFP[slot]
				continue
			}
			fp := probe.Fingerprint()
			cached, hit := proj.feTracker.Retrieve(fp)
			j := job{slot: slot, targetIdx: ti, learner: probe, fp: fp, cached: hit}
			if hit {
				j.learner = cached
			}
			if probe.SupportsMultipleTargets() {
				shared[slot] = j.learner
				sharedFP[slot] = fp
			}
			if !hit && probe.ThreadSafe() {
				parallelJobs = append(parallelJobs, j)
			} else {
				sequential = append(sequential, j)
			}
		}
	}

	runJob := func(j job) error {
		if j.cached {
			return nil
		}
		if err := j.learner.Fit(featurelearner.FitParams{Population: pop, Peripherals: peripherals, Placeholder: placeholder, TargetNum: j.targetIdx}); err != nil {
			return err
		}
		proj.feTracker.Add(j.fp, j.learner)
		return nil
	}

	for _, j := range sequential {
		if err := runJob(j); err != nil {
			return nil, nil, err
		}
	}
	if len(parallelJobs) > 0 {
		pool := parallel.NewPool(o.PoolSize)
		errs := make([]error, len(parallelJobs))
		for i, j := range parallelJobs {
			i, j := i, j
			pool.Submit(func() { errs[i] = runJob(j) })
		}
		pool.Wait()
		pool.Close()
		for _, err := range errs {
			if err != nil {
				return nil, nil, err
			}
		}
	}

	for _, j := range sequential {
		learners[cfg.Targets[j.targetIdx]][j.slot] = j.learner
		fps[cfg.Targets[j.targetIdx]][j.slot] = j.fp
	}
	for _, j := range parallelJobs {
		learners[cfg.Targets[j.targetIdx]][j.slot] = j.learner
		fps[cfg.Targets[j.targetIdx]][j.slot] = j.fp
	}

	return learners, fps, ctx.Err()
}

func transformFeatureBanks(learners map[string][]featurelearner.FeatureLearner, pop *dataframe.DataFrame, peripherals staging.Tables) (map[string][][]featurelearner.NumericFeature, error) {
	banks := make(map[string][][]featurelearner.NumericFeature, len(learners))
	for target, ls := range learners {
		perLearner := make([][]featurelearner.NumericFeature, len(ls))
		for i, l := range ls {
			bank, err := l.Transform(featurelearner.TransformParams{Population: pop, Peripherals: peripherals})
			if err != nil {
				return nil, fmt.Errorf("learner %d target %q: %w", i, target, err)
			}
			perLearner[i] = bank
		}
		banks[target] = perLearner
	}
	return banks, nil
}

// fitSelectorsAndPrune fits every feature-selector factory against every
// target, sharing the single selectorImpl column layout (spec.md §4.6's
// construction-for-the-feature-selector), then sums every selector's
// per-target FeatureImportances() into one combined ranking and prunes it
// into the single PredictorImpl every target's predictors subsequently
// share (spec.md §4.8 step 8 "clone the selector impl").
func (o *Orchestrator) fitSelectorsAndPrune(cfg *Config, proj *project, selectorImpl *predictorimpl.PredictorImpl, banks map[string][][]featurelearner.NumericFeature, learnerFPs map[string][]fingerprint.Fingerprint, pop *dataframe.DataFrame) (map[string][]predictor.Predictor, map[string][]fingerprint.Fingerprint, *predictorimpl.PredictorImpl, error) {
	selectors := make(map[string][]predictor.Predictor, len(cfg.Targets))
	fps := make(map[string][]fingerprint.Fingerprint, len(cfg.Targets))
	total := selectorImpl.TotalCondensedFeatures()
	var allVecs [][]float64

	fields := fingerprint.PredictorHyperparams{
		Autofeatures:        selectorImpl.Autofeatures,
		CategoricalColnames: selectorImpl.CategoricalColnames,
		NumericalColnames:   selectorImpl.NumericalColnames,
	}

	for _, target := range cfg.Targets {
		xCat, xNum, _, err := buildFeatureMatrix(pop, selectorImpl, banks[target])
		if err != nil {
			return nil, nil, nil, err
		}
		y, err := targetColumn(pop, target)
		if err != nil {
			return nil, nil, nil, err
		}
		for _, factory := range cfg.FeatureSelectors {
			s := factory(fields, learnerFPs[target])
			fp := s.Fingerprint()
			if cached, ok := proj.predTracker.Retrieve(fp); ok {
				s = cached
			} else if _, err := s.Fit(o.Logger, xCat, xNum, y, nil); err != nil {
				return nil, nil, nil, err
			} else {
				proj.predTracker.Add(fp, s)
			}
			selectors[target] = append(selectors[target], s)
			fps[target] = append(fps[target], fp)
			allVecs = append(allVecs, s.FeatureImportances(total))
		}
	}

	index := condensedImportance(total, allVecs)
	nSelected := total
	if cfg.ShareSelectedFeatures > 0 && cfg.ShareSelectedFeatures < 1 {
		nSelected = int(float64(total) * cfg.ShareSelectedFeatures)
		if nSelected < 1 {
			nSelected = 1
		}
	}
	predImpl := selectorImpl.Clone().SelectFeatures(nSelected, index)

	return selectors, fps, predImpl, nil
}

// fitPredictors fits every predictor factory against every target, using
// the pruned predictor layout and the combined feature-learner/selector
// dependency chain (spec.md §4.8 step 9).
func (o *Orchestrator) fitPredictors(cfg *Config, proj *project, impl *predictorimpl.PredictorImpl, banks map[string][][]featurelearner.NumericFeature, learnerFPs, selectorFPs map[string][]fingerprint.Fingerprint, pop *dataframe.DataFrame) (map[string][]predictor.Predictor, map[string][]fingerprint.Fingerprint, error) {
	predictors := make(map[string][]predictor.Predictor, len(cfg.Targets))
	fps := make(map[string][]fingerprint.Fingerprint, len(cfg.Targets))

	fields := fingerprint.PredictorHyperparams{
		Autofeatures:        impl.Autofeatures,
		CategoricalColnames: impl.CategoricalColnames,
		NumericalColnames:   impl.NumericalColnames,
	}

	for _, target := range cfg.Targets {
		xCat, xNum, _, err := buildFeatureMatrix(pop, impl, banks[target])
		if err != nil {
			return nil, nil, err
		}
		y, err := targetColumn(pop, target)
		if err != nil {
			return nil, nil, err
		}
		deps := append(append([]fingerprint.Fingerprint(nil), learnerFPs[target]...), selectorFPs[target]...)
		for _, factory := range cfg.Predictors {
			p := factory(fields, deps)
			fp := p.Fingerprint()
			if cached, ok := proj.predTracker.Retrieve(fp); ok {
				p = cached
			} else if _, err := p.Fit(o.Logger, xCat, xNum, y, nil); err != nil {
				return nil, nil, err
			} else {
				proj.predTracker.Add(fp, p)
			}
			predictors[target] = append(predictors[target], p)
			fps[target] = append(fps[target], fp)
		}
	}
	return predictors, fps, nil
}

func averagePredictions(preds []predictor.Predictor, xCat [][]int, xNum [][]float64) ([]float64, error) {
	var sum []float64
	for _, p := range preds {
		pr, err := p.Predict(xCat, xNum)
		if err != nil {
			return nil, err
		}
		if sum == nil {
			sum = make([]float64, len(pr))
		}
		for i, v := range pr {
			sum[i] += v
		}
	}
	for i := range sum {
		sum[i] /= float64(len(preds))
	}
	return sum, nil
}

func targetColumn(df *dataframe.DataFrame, target string) ([]float64, error) {
	s, err := df.Column(target)
	if err != nil {
		return nil, fmt.Errorf("target column %q: %w", target, err)
	}
	n := s.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, ok := s.Get(i)
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case float64:
			out[i] = x
		case int64:
			out[i] = float64(x)
		case int:
			out[i] = float64(x)
		}
	}
	return out, nil
}

func collectDataFrameFingerprints(model *schema.DataModel, pop *dataframe.DataFrame, peripherals staging.Tables) []fingerprint.Fingerprint {
	fps := []fingerprint.Fingerprint{fingerprint.DataModel(model.Encode()), pop.Fingerprint()}
	for _, name := range sortedTableNames(peripherals) {
		fps = append(fps, peripherals[name].Fingerprint())
	}
	return fps
}

// allFeatureSelectorFingerprints flattens fp.FSFingerprints across every
// target in cfg.Targets (the same fixed order Fit fit them in), so
// Transform's cache key depends on every target's feature-selector
// fingerprint set rather than only the first target's — two fits that
// differ solely in target #2+'s selectors/learners/predictors must not
// collide on the same assembled-frame cache entry.
func allFeatureSelectorFingerprints(fp *FittedPipeline, cfg *Config) []fingerprint.Fingerprint {
	var fps []fingerprint.Fingerprint
	for _, target := range cfg.Targets {
		fps = append(fps, fp.FSFingerprints[target]...)
	}
	return fps
}

func sortedTableNames(tables staging.Tables) []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func buildOriginalSchemata(tables staging.Tables) map[string]*schema.Schema {
	out := make(map[string]*schema.Schema, len(tables))
	for name, df := range tables {
		out[name] = buildOriginalSchema(df)
	}
	return out
}

func buildModifiedSchemata(tables staging.Tables) map[string]*schema.Schema {
	out := make(map[string]*schema.Schema, len(tables))
	for name, df := range tables {
		out[name] = buildModifiedSchema(df)
	}
	return out
}

// featureColumnName names the materialized autofeature column Transform
// bakes into the assembled frame, namespaced by target so two targets
// whose predictor layouts retained the same (learner, index) pair never
// collide.
func featureColumnName(target string, learner, idx int) string {
	return fmt.Sprintf("feature_%s_%d_%d", target, learner, idx)
}

func singleColumn(name string, values []float64) (*series.Series[any], error) {
	df, err := dataframe.New(map[string]any{name: values})
	if err != nil {
		return nil, err
	}
	return df.Column(name)
}

// buildTransformMatrix reads the condensed feature layout directly out of
// an already-assembled frame's named columns (the "feature_<target>_<l>_
// <idx>" columns Transform bakes in, plus the manual numerical/categorical
// columns), rather than from an in-memory feature bank — this is what lets
// a data-frame-tracker cache hit skip re-running every feature learner.
func buildTransformMatrix(assembled *dataframe.DataFrame, impl *predictorimpl.PredictorImpl, target string) ([][]int, [][]float64, error) {
	n := assembled.Nrows()
	var xNum [][]float64
	for l, indices := range impl.Autofeatures {
		for _, idx := range indices {
			name := featureColumnName(target, l, idx)
			vals, err := numericRawColumn(assembled, name, n)
			if err != nil {
				return nil, nil, err
			}
			xNum = append(xNum, vals)
		}
	}
	for _, col := range impl.NumericalColnames {
		vals, err := numericRawColumn(assembled, col, n)
		if err != nil {
			return nil, nil, err
		}
		xNum = append(xNum, vals)
	}

	var xCat [][]int
	if len(impl.CategoricalColnames) > 0 {
		raw := make([][]int64, len(impl.CategoricalColnames))
		for i, col := range impl.CategoricalColnames {
			r, err := categoricalRawColumn(assembled, col, n)
			if err != nil {
				return nil, nil, err
			}
			raw[i] = r
		}
		var err error
		xCat, err = impl.TransformEncodings(raw)
		if err != nil {
			return nil, nil, err
		}
	}
	return xCat, xNum, nil
}
