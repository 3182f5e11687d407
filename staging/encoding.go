package staging

// NullCode is the sentinel integer meaning "null" in an encoded column;
// composite join keys with any null component propagate it (spec.md §4.3
// step 1).
const NullCode int64 = -1

// Encoding is a dense bidirectional map between strings and a 0..N-1 int
// range, shared across every column that must agree on the same code
// space (e.g. all components of one composite join key).
type Encoding struct {
	toCode  map[string]int64
	toValue []string
}

// NewEncoding creates an empty Encoding.
func NewEncoding() *Encoding {
	return &Encoding{toCode: make(map[string]int64)}
}

// Encode returns value's dense code, assigning a fresh one if unseen.
func (e *Encoding) Encode(value string) int64 {
	if code, ok := e.toCode[value]; ok {
		return code
	}
	code := int64(len(e.toValue))
	e.toCode[value] = code
	e.toValue = append(e.toValue, value)
	return code
}

// Lookup returns value's code without assigning one, and whether it was seen.
func (e *Encoding) Lookup(value string) (int64, bool) {
	code, ok := e.toCode[value]
	return code, ok
}

// Decode returns the string for a previously assigned code.
func (e *Encoding) Decode(code int64) (string, bool) {
	if code < 0 || int(code) >= len(e.toValue) {
		return "", false
	}
	return e.toValue[code], true
}

// NUnique returns the number of distinct values encoded so far.
func (e *Encoding) NUnique() int { return len(e.toValue) }
