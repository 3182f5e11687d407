package pipeline

import (
	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/schema"
)

// buildOriginalSchema reads df's per-column Role() tags (set by the
// caller/staging before Fit) into a schema.Schema, one entry per column in
// storage order (spec.md §3's "original schema (as the user supplied)").
func buildOriginalSchema(df *dataframe.DataFrame) *schema.Schema {
	s := schema.NewSchema(df.Name())
	for _, col := range df.Columns() {
		s.Add(schema.ParseRole(df.Role(col)), col)
	}
	return s
}

// buildModifiedSchema derives the post-preprocessing schema from the
// original: any numerical column the preprocessing stage tagged with the
// "discrete" subrole is moved to RoleDiscrete, per spec.md §3's "modified
// schema (post-preprocessing, discrete split off from numerical)".
func buildModifiedSchema(df *dataframe.DataFrame) *schema.Schema {
	s := buildOriginalSchema(df)
	for _, col := range s.Names(schema.RoleNumerical) {
		if df.HasSubrole(col, "discrete") {
			s.SplitDiscrete(col)
		}
	}
	return s
}
