package azdo

import "encoding/json"

// PatchOpKind is the JSON Patch operation tag.
type PatchOpKind string

const (
	OpAdd     PatchOpKind = "add"
	OpReplace PatchOpKind = "replace"
	OpRemove  PatchOpKind = "remove"
)

// PatchOp is one operation of a work item patch document. Remove carries
// no value; Add and Replace always serialize theirs, including zero values.
type PatchOp struct {
	Op    PatchOpKind
	Path  string
	Value any
}

// AddOp builds an add operation.
func AddOp(path string, value any) PatchOp {
	return PatchOp{Op: OpAdd, Path: path, Value: value}
}

// AddField builds an add operation for a field reference name.
func AddField(referenceName string, value any) PatchOp {
	return AddOp("/fields/"+referenceName, value)
}

// ReplaceOp builds a replace operation.
func ReplaceOp(path string, value any) PatchOp {
	return PatchOp{Op: OpReplace, Path: path, Value: value}
}

// RemoveOp builds a remove operation.
func RemoveOp(path string) PatchOp {
	return PatchOp{Op: OpRemove, Path: path}
}

// MarshalJSON emits {op, path} for remove and {op, path, value} otherwise.
// A plain omitempty tag would also drop legitimate zero values like "" or
// 0 from add operations, so the two shapes are written explicitly.
func (p PatchOp) MarshalJSON() ([]byte, error) {
	if p.Op == OpRemove {
		return json.Marshal(struct {
			Op   PatchOpKind `json:"op"`
			Path string      `json:"path"`
		}{p.Op, p.Path})
	}
	return json.Marshal(struct {
		Op    PatchOpKind `json:"op"`
		Path  string      `json:"path"`
		Value any         `json:"value"`
	}{p.Op, p.Path, p.Value})
}
