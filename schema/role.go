// Package schema declares the data model the orchestrator operates on:
// the user-facing DataModel join tree, the per-table Schema role
// partition, and the canonical Placeholder tree staging produces from
// them.
package schema

// Role partitions a column by what the orchestrator may do with it.
type Role int

const (
	RoleUnused Role = iota
	RoleCategorical
	RoleDiscrete
	RoleJoinKey
	RoleNumerical
	RoleTarget
	RoleText
	RoleTimeStamp
	RoleUnusedFloat
	RoleUnusedString
)

// String renders the role the way column-importance descriptions and SQL
// generation need it, matching core.Dtype's String() pattern.
func (r Role) String() string {
	switch r {
	case RoleCategorical:
		return "categorical"
	case RoleDiscrete:
		return "discrete"
	case RoleJoinKey:
		return "join_key"
	case RoleNumerical:
		return "numerical"
	case RoleTarget:
		return "target"
	case RoleText:
		return "text"
	case RoleTimeStamp:
		return "time_stamp"
	case RoleUnusedFloat:
		return "unused_float"
	case RoleUnusedString:
		return "unused_string"
	default:
		return "unused"
	}
}

// ParseRole is the inverse of Role.String(), used when a DataFrame's
// string-typed role tag (dataframe.DataFrame.Role) needs to be read back
// as a schema.Role for Schema construction.
func ParseRole(s string) Role {
	switch s {
	case "categorical":
		return RoleCategorical
	case "discrete":
		return RoleDiscrete
	case "join_key":
		return RoleJoinKey
	case "numerical":
		return RoleNumerical
	case "target":
		return RoleTarget
	case "text":
		return RoleText
	case "time_stamp":
		return RoleTimeStamp
	case "unused_float":
		return RoleUnusedFloat
	case "unused_string":
		return RoleUnusedString
	default:
		return RoleUnused
	}
}

// Relationship is the join cardinality between a table and a joined table.
type Relationship int

const (
	ManyToMany Relationship = iota
	ManyToOne
	OneToMany
	OneToOne
	Propositionalization
)

// IsToMany reports whether the relationship produces a new Placeholder
// child (rather than being flattened by many-to-one inlining).
func (r Relationship) IsToMany() bool {
	switch r {
	case ManyToMany, OneToMany, Propositionalization:
		return true
	default:
		return false
	}
}

func (r Relationship) String() string {
	switch r {
	case ManyToMany:
		return "many-to-many"
	case ManyToOne:
		return "many-to-one"
	case OneToMany:
		return "one-to-many"
	case OneToOne:
		return "one-to-one"
	case Propositionalization:
		return "propositionalization"
	default:
		return "unknown"
	}
}

// Subrole tags additional, non-exclusive behavior on a column.
type Subrole string

const (
	SubroleExcludePredictors    Subrole = "exclude_predictors"
	SubroleExcludePreprocessors Subrole = "exclude_preprocessors"
	SubroleEMail                Subrole = "email"
	SubroleEMailOnly            Subrole = "email_only"
	SubroleSubstringOnly        Subrole = "substring_only"
	SubroleExcludeSeasonal      Subrole = "exclude_seasonal"
)

// UnitComparisonOnly is the sentinel unit value marking a numerical column
// as usable only for comparison (e.g. time stamps), never as a predictor
// feature.
const UnitComparisonOnly = "comparison only"
