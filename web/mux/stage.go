package mux

import (
	"cmp"
	"slices"
)

// Stage positions a middleware in the request chain. Lower stages wrap
// higher ones, so they see the request first and the response last.
type Stage int

// Stages of the resource server. Stages below StageMetrics are global:
// they run in ServeHTTP for every request, including ones no route
// matches. The rest run per route inside the request span.
const (
	StageCORS         Stage = 10
	StageCSRF         Stage = 20
	StageMetrics      Stage = 30
	StageLogger       Stage = 40
	StageErrors       Stage = 50
	StageAuthenticate Stage = 60
	StageCustom       Stage = 70
	StagePanics       Stage = 100
)

// Global reports whether middleware at s runs outside routing.
func (s Stage) Global() bool {
	return s < StageMetrics
}

// Layer is a middleware tagged with the stage it runs at.
type Layer struct {
	Stage Stage
	Wrap  Middleware
}

// At tags mw with stage.
func At(stage Stage, mw Middleware) Layer {
	return Layer{Stage: stage, Wrap: mw}
}

// chains orders layers by stage and splits them into the global and the
// route stack. Layers sharing a stage keep the order they were given in.
func chains(layers []Layer) (global, route []Middleware) {
	sorted := slices.Clone(layers)
	slices.SortStableFunc(sorted, func(a, b Layer) int {
		return cmp.Compare(a.Stage, b.Stage)
	})

	for _, l := range sorted {
		if l.Wrap == nil {
			continue
		}
		if l.Stage.Global() {
			global = append(global, l.Wrap)
		} else {
			route = append(route, l.Wrap)
		}
	}

	return global, route
}
