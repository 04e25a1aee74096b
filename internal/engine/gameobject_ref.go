package engine

import "github.com/google/uuid"

// ObjectRef is a serializable reference to a GameObject by GUID. Scripts hold
// these instead of pointers so references survive a save/load round trip.
//
//	type Door struct {
//	    engine.BaseComponent
//	    Switch engine.ObjectRef
//	}
//
//	func (d *Door) Update(dt float32) {
//	    if sw, ok := d.Switch.Get(d.Scene()); ok {
//	        // ...
//	    }
//	}
type ObjectRef struct {
	GUID uuid.UUID
}

// RefTo returns a reference to g, or an empty one for nil.
func RefTo(g *GameObject) ObjectRef {
	var r ObjectRef
	r.Set(g)
	return r
}

// Get resolves the reference. It fails for empty references, nil scenes and
// objects that are gone or queued for deletion.
func (r ObjectRef) Get(scene *Scene) (*GameObject, bool) {
	if r.GUID == uuid.Nil || scene == nil {
		return nil, false
	}
	g, ok := scene.FindObjectByGUID(r.GUID)
	if !ok || !g.Alive() {
		return nil, false
	}
	return g, true
}

// IsValid reports whether the reference points at something. It does not
// check that the object still exists.
func (r ObjectRef) IsValid() bool { return r.GUID != uuid.Nil }

func (r *ObjectRef) Set(g *GameObject) {
	if g == nil {
		r.GUID = uuid.Nil
		return
	}
	r.GUID = g.GUID()
}

func (r *ObjectRef) Clear() { r.GUID = uuid.Nil }

func (r ObjectRef) String() string {
	if !r.IsValid() {
		return ""
	}
	return r.GUID.String()
}

// ParseObjectRef is the inverse of String. An empty string is the empty reference.
func ParseObjectRef(s string) (ObjectRef, error) {
	if s == "" {
		return ObjectRef{}, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return ObjectRef{}, err
	}
	return ObjectRef{GUID: id}, nil
}
