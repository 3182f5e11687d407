package fingerprint

import "strconv"

// OrdinaryDataFrame fingerprints a materialized table by name and
// last-modification marker. It is a leaf variant: it carries no
// dependencies of its own.
func OrdinaryDataFrame(name, lastChange string) Fingerprint {
	return newBuilder("OrdinaryDataFrame").str("name", name).str("last_change", lastChange).build()
}

// ViewOp fingerprints an opaque view operation by its own description.
func ViewOp(description string) Fingerprint {
	return newBuilder("ViewOp").str("description", description).build()
}

// DataModel fingerprints the declarative value itself via its canonical
// textual encoding (produced by schema.DataModel.Encode).
func DataModel(encoded string) Fingerprint {
	return newBuilder("DataModel").str("encoded", encoded).build()
}

// PipelineBuildHistory fingerprints the build history of a derived data
// frame: the dependencies that produced it plus the fingerprints of the
// input data frames it was built from.
func PipelineBuildHistory(dependencies []Fingerprint, dfFingerprints []Fingerprint) Fingerprint {
	b := newBuilder("PipelineBuildHistory").deps(dependencies)
	b.deps(dfFingerprints)
	b.i("num_dependencies", len(dependencies))
	b.i("num_df_fingerprints", len(dfFingerprints))
	return b.build()
}

// Preprocessor variants -----------------------------------------------------

// CategoryTrimmer fingerprints a category-trimming preprocessor.
func CategoryTrimmer(minFreq int, dependencies []Fingerprint) Fingerprint {
	return newBuilder("CategoryTrimmer").i("min_freq", minFreq).deps(dependencies).build()
}

// EMailDomain fingerprints the e-mail domain extraction preprocessor.
func EMailDomain(dependencies []Fingerprint) Fingerprint {
	return newBuilder("EMailDomain").deps(dependencies).build()
}

// Imputation fingerprints the imputation preprocessor.
func Imputation(strategy string, dependencies []Fingerprint) Fingerprint {
	return newBuilder("Imputation").str("strategy", strategy).deps(dependencies).build()
}

// Seasonal fingerprints the seasonal-decomposition preprocessor.
func Seasonal(dependencies []Fingerprint) Fingerprint {
	return newBuilder("Seasonal").deps(dependencies).build()
}

// Substring fingerprints the substring-extraction preprocessor.
func Substring(begin, length int, dependencies []Fingerprint) Fingerprint {
	return newBuilder("Substring").i("begin", begin).i("length", length).deps(dependencies).build()
}

// TextFieldSplitter fingerprints the text-field tokenization preprocessor.
func TextFieldSplitter(dependencies []Fingerprint) Fingerprint {
	return newBuilder("TextFieldSplitter").deps(dependencies).build()
}

// FastPropHyperparams carries the complete behavior-relevant hyperparameter
// set of the FastProp feature learner. No field may be omitted when
// constructing its fingerprint.
type FastPropHyperparams struct {
	NumFeaturesMax   int
	AggregationDepth int
	MinRatio         float64
}

// FastProp fingerprints a FastProp feature-learner instance.
func FastProp(hp FastPropHyperparams, dependencies []Fingerprint, peripheral, placeholder string, targetNum int) Fingerprint {
	b := newBuilder("FastProp")
	b.i("num_features_max", hp.NumFeaturesMax)
	b.i("aggregation_depth", hp.AggregationDepth)
	b.f64("min_ratio", hp.MinRatio)
	b.str("peripheral", peripheral)
	b.str("placeholder", placeholder)
	b.i("target_num", targetNum)
	b.deps(dependencies)
	return b.build()
}

// PredictorHyperparams is the common field set every predictor fingerprint
// variant carries alongside its own hyperparameters: the autofeature index
// sets per learner and the manual column layout, per spec.md §4.1.
type PredictorHyperparams struct {
	Autofeatures        [][]int
	CategoricalColnames []string
	NumericalColnames   []string
}

func (p PredictorHyperparams) apply(b *builder) {
	for i, af := range p.Autofeatures {
		b.ints("autofeatures_"+strconv.Itoa(i), af)
	}
	b.i("num_learners", len(p.Autofeatures))
	b.strs("categorical_colnames", p.CategoricalColnames)
	b.strs("numerical_colnames", p.NumericalColnames)
}

// LinearRegression fingerprints a linear-regression predictor instance.
func LinearRegression(fitIntercept bool, predictorFields PredictorHyperparams, dependencies []Fingerprint) Fingerprint {
	b := newBuilder("LinearRegression")
	b.bool("fit_intercept", fitIntercept)
	predictorFields.apply(b)
	b.deps(dependencies)
	return b.build()
}

// LogisticRegression fingerprints a logistic-regression predictor instance.
func LogisticRegression(penalty string, c float64, maxIter int, predictorFields PredictorHyperparams, dependencies []Fingerprint) Fingerprint {
	b := newBuilder("LogisticRegression")
	b.str("penalty", penalty)
	b.f64("c", c)
	b.i("max_iter", maxIter)
	predictorFields.apply(b)
	b.deps(dependencies)
	return b.build()
}

// XGBoost fingerprints the boosted-tree-ensemble predictor instance.
func XGBoost(numTrees, maxDepth int, learningRate float64, predictorFields PredictorHyperparams, dependencies []Fingerprint) Fingerprint {
	b := newBuilder("XGBoost")
	b.i("num_trees", numTrees)
	b.i("max_depth", maxDepth)
	b.f64("learning_rate", learningRate)
	predictorFields.apply(b)
	b.deps(dependencies)
	return b.build()
}

// TargetNumber fingerprints a per-target replication marker. It is appended
// to the dependency list of a predictor/learner fingerprint whenever the
// underlying component does not support multiple targets natively and the
// orchestrator replicates it once per target.
func TargetNumber(targetNum int) Fingerprint {
	return newBuilder("TargetNumber").i("target_num", targetNum).build()
}
