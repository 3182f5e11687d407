package pipeline

import (
	"sync"

	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/featurelearner"
	"github.com/relauto/engine/fingerprint"
	"github.com/relauto/engine/predictor"
	"github.com/relauto/engine/preprocessor"
	"github.com/relauto/engine/tracker"
)

// project holds the five fingerprint trackers and the pipeline/data-frame
// registry for one named project, guarded by a single reader-writer lock
// (spec.md §5: "Shared state is limited to the five trackers and the
// ProjectManager's registry... Access is guarded by a single
// reader-writer lock per project").
type project struct {
	mu sync.RWMutex

	feTracker           *tracker.DependencyTracker[featurelearner.FeatureLearner]
	predTracker         *tracker.DependencyTracker[predictor.Predictor]
	preprocessorTracker *tracker.DependencyTracker[preprocessor.Preprocessor]
	dataFrameTracker    *tracker.DependencyTracker[*dataframe.DataFrame]
	warningTracker      *tracker.DependencyTracker[string]

	pipelines  map[string]*FittedPipeline
	dataFrames map[string]*dataframe.DataFrame
}

func newProject() *project {
	return &project{
		feTracker:           tracker.New[featurelearner.FeatureLearner](tracker.DefaultCapacity),
		predTracker:         tracker.New[predictor.Predictor](tracker.DefaultCapacity),
		preprocessorTracker: tracker.New[preprocessor.Preprocessor](tracker.DefaultCapacity),
		dataFrameTracker:    tracker.New[*dataframe.DataFrame](tracker.DefaultCapacity),
		warningTracker:      tracker.New[string](tracker.DefaultCapacity),
		pipelines:           make(map[string]*FittedPipeline),
		dataFrames:          make(map[string]*dataframe.DataFrame),
	}
}

// ProjectManager owns one project registry per project name, lazily
// created on first access (spec.md §5's "Lifetimes tied to the project
// directory").
type ProjectManager struct {
	mu       sync.Mutex
	projects map[string]*project
}

// NewProjectManager creates an empty manager.
func NewProjectManager() *ProjectManager {
	return &ProjectManager{projects: make(map[string]*project)}
}

func (pm *ProjectManager) project(name string) *project {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	p, ok := pm.projects[name]
	if !ok {
		p = newProject()
		pm.projects[name] = p
	}
	return p
}

// Clear drops every tracker entry for a project (spec.md §5: trackers are
// add-only, so a clear is always safe — any future identical fit simply
// repopulates them).
func (pm *ProjectManager) Clear(projectName string) {
	p := pm.project(projectName)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.feTracker.Clear()
	p.predTracker.Clear()
	p.preprocessorTracker.Clear()
	p.dataFrameTracker.Clear()
	p.warningTracker.Clear()
}

// GetPipeline retrieves a previously-registered fitted pipeline by name.
func (pm *ProjectManager) GetPipeline(projectName, pipelineName string) (*FittedPipeline, bool) {
	p := pm.project(projectName)
	p.mu.RLock()
	defer p.mu.RUnlock()
	fp, ok := p.pipelines[pipelineName]
	return fp, ok
}

// registerPipeline performs the "weak write lock" upgrade of spec.md §5:
// the caller runs the algorithmic fit body under a read lock (so readers
// of other pipelines in the same project are not blocked by a multi-second
// fit), then this method briefly takes the exclusive write lock only for
// the final registry mutation. Go's sync.RWMutex has no built-in
// read-to-write upgrade, so this is implemented as release-RLock-then-Lock
// with no re-check, rather than a true atomic upgrade — see DESIGN.md's Open
// Question entry for why this approximation, not a silent gap, is correct
// here: the tracker adds that happened under the read lock are
// conflict-free (first-writer-wins, add-only), so the only state this
// write actually protects is the pipelines map insert itself.
func (p *project) registerPipeline(name string, fp *FittedPipeline) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pipelines[name] = fp
}
