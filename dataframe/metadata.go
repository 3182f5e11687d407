package dataframe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/relauto/engine/fingerprint"
)

// Name returns the table name used for fingerprinting and staging
// diagnostics. Defaults to "" for DataFrames built without SetName.
func (df *DataFrame) Name() string {
	df.mu.RLock()
	defer df.mu.RUnlock()
	return df.name
}

// SetName sets the table name.
func (df *DataFrame) SetName(name string) {
	df.mu.Lock()
	defer df.mu.Unlock()
	df.name = name
}

// Touch bumps the last-modification marker. Every command that mutates a
// DataFrame in place must call Touch so Fingerprint() reflects the change;
// copy-on-write operations that return a new DataFrame instead inherit a
// fresh marker implicitly (their column layout differs).
func (df *DataFrame) Touch() {
	df.mu.Lock()
	defer df.mu.Unlock()
	df.bumpLocked()
}

func (df *DataFrame) bumpLocked() {
	n, _ := strconv.Atoi(df.lastChange)
	df.lastChange = strconv.Itoa(n + 1)
}

// SetUnit sets the free-form unit string for a column (may embed the
// "comparison only" sentinel per spec.md §3).
func (df *DataFrame) SetUnit(col, unit string) {
	df.mu.Lock()
	defer df.mu.Unlock()
	if df.colUnit == nil {
		df.colUnit = make(map[string]string)
	}
	df.colUnit[col] = unit
	df.bumpLocked()
}

// Unit returns the unit string for a column ("" if unset).
func (df *DataFrame) Unit(col string) string {
	df.mu.RLock()
	defer df.mu.RUnlock()
	return df.colUnit[col]
}

// AddSubrole tags a column with an additional subrole.
func (df *DataFrame) AddSubrole(col, subrole string) {
	df.mu.Lock()
	defer df.mu.Unlock()
	if df.colSubroles == nil {
		df.colSubroles = make(map[string][]string)
	}
	for _, existing := range df.colSubroles[col] {
		if existing == subrole {
			return
		}
	}
	df.colSubroles[col] = append(df.colSubroles[col], subrole)
	df.bumpLocked()
}

// HasSubrole reports whether col carries subrole.
func (df *DataFrame) HasSubrole(col, subrole string) bool {
	df.mu.RLock()
	defer df.mu.RUnlock()
	for _, existing := range df.colSubroles[col] {
		if existing == subrole {
			return true
		}
	}
	return false
}

// Subroles returns a copy of the subroles tagged on col.
func (df *DataFrame) Subroles(col string) []string {
	df.mu.RLock()
	defer df.mu.RUnlock()
	out := make([]string, len(df.colSubroles[col]))
	copy(out, df.colSubroles[col])
	return out
}

// SetRole assigns the orchestrator-facing role tag for a column.
func (df *DataFrame) SetRole(col, role string) {
	df.mu.Lock()
	defer df.mu.Unlock()
	if df.colRole == nil {
		df.colRole = make(map[string]string)
	}
	df.colRole[col] = role
	df.bumpLocked()
}

// Role returns the role tag for a column ("" if unset).
func (df *DataFrame) Role(col string) string {
	df.mu.RLock()
	defer df.mu.RUnlock()
	return df.colRole[col]
}

// CopyMetadataFrom copies the name, unit, subrole, and role bookkeeping
// from src onto df, leaving df's own column/row data untouched. The
// copy-on-write operations (WithColumn, Rename, Select, ...) construct a
// fresh *DataFrame literal and do not carry this package's metadata
// extensions forward, so staging and the preprocessors call this
// immediately after any such operation to keep per-column bookkeeping
// attached to the derived frame.
func (df *DataFrame) CopyMetadataFrom(src *DataFrame) {
	src.mu.RLock()
	name := src.name
	lastChange := src.lastChange
	unit := make(map[string]string, len(src.colUnit))
	for k, v := range src.colUnit {
		unit[k] = v
	}
	subroles := make(map[string][]string, len(src.colSubroles))
	for k, v := range src.colSubroles {
		subroles[k] = append([]string(nil), v...)
	}
	role := make(map[string]string, len(src.colRole))
	for k, v := range src.colRole {
		role[k] = v
	}
	src.mu.RUnlock()

	df.mu.Lock()
	df.name = name
	df.lastChange = lastChange
	df.colUnit = unit
	df.colSubroles = subroles
	df.colRole = role
	df.mu.Unlock()
}

// Fingerprint combines the table name, the last-modification marker, and
// the ordered column-name/dtype layout into a leaf fingerprint, per
// spec.md §3: "DataFrames expose a fingerprint() combining name,
// last-modification marker, and column layout."
func (df *DataFrame) Fingerprint() fingerprint.Fingerprint {
	df.mu.RLock()
	defer df.mu.RUnlock()

	var layout strings.Builder
	for i, col := range df.columns {
		if i > 0 {
			layout.WriteByte(',')
		}
		s := df.series[col]
		dtype := "unknown"
		if s != nil {
			dtype = s.Dtype().String()
		}
		fmt.Fprintf(&layout, "%s:%s", col, dtype)
	}

	marker := df.lastChange + "|" + layout.String()
	return fingerprint.OrdinaryDataFrame(df.name, marker)
}
