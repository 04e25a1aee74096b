package world

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"otter/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrInvalidScene is returned for scene files that cannot be decoded or that
// describe an impossible hierarchy.
var ErrInvalidScene = errors.New("invalid scene file")

// --- JSON types ---

type SceneFile struct {
	Name       string       `json:"name"`
	Gravity    *[3]float32  `json:"gravity,omitempty"`
	MainCamera string       `json:"main_camera,omitempty"`
	Objects    []NodeRecord `json:"objects"`
}

type NodeRecord struct {
	Name       string        `json:"name"`
	GUID       string        `json:"guid"`
	Tags       []string      `json:"tags,omitempty"`
	Position   [3]float32    `json:"position"`
	Rotation   [4]float32    `json:"rotation"`
	Scale      [3]float32    `json:"scale"`
	Parent     *string       `json:"parent"`
	Components ComponentList `json:"components"`
	Children   []NodeRecord  `json:"children,omitempty"`
}

// ComponentRecord is one entry of a node's components object: the registry
// tag and the blob produced by the component's Serialize.
type ComponentRecord struct {
	Type string
	Data map[string]any
}

// ComponentList encodes as a JSON object keyed by type tag. Key order is
// kept so components are attached in the order they were saved.
type ComponentList []ComponentRecord

func (l ComponentList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Type)
		if err != nil {
			return nil, err
		}
		data := c.Data
		if data == nil {
			data = map[string]any{}
		}
		value, err := json.Marshal(data)
		if err != nil {
			return nil, errors.Wrapf(err, "component %q", c.Type)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (l *ComponentList) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("components must be an object")
	}
	var out ComponentList
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		tag, _ := tok.(string)
		var data map[string]any
		if err := dec.Decode(&data); err != nil {
			return errors.Wrapf(err, "component %q", tag)
		}
		out = append(out, ComponentRecord{Type: tag, Data: data})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = out
	return nil
}

const guidKey = "guid"

type guidSetter interface {
	SetGUID(id uuid.UUID)
}

// --- Loading ---

type loader struct {
	scene  *engine.Scene
	logger *zap.Logger
	seen   map[uuid.UUID]bool
	// flat records that name their parent instead of nesting under it, in
	// record order so siblings keep the order they were written in
	pending []parentLink
}

type parentLink struct {
	child  *engine.GameObject
	parent uuid.UUID
}

// LoadScene decodes a scene file and builds a scene with registry. The scene
// is returned before Awake so callers can adjust it first. Components whose
// tag is not registered are logged and dropped.
func LoadScene(r io.Reader, registry *engine.Registry, opts ...engine.Option) (*engine.Scene, error) {
	var sf SceneFile
	if err := json.NewDecoder(r).Decode(&sf); err != nil {
		return nil, errors.Wrapf(ErrInvalidScene, "decode: %v", err)
	}
	return Build(&sf, registry, opts...)
}

// Build creates a scene from a decoded scene file. Gravity from the file
// overrides any gravity option.
func Build(sf *SceneFile, registry *engine.Registry, opts ...engine.Option) (*engine.Scene, error) {
	if g := sf.Gravity; g != nil {
		opts = append(opts[:len(opts):len(opts)], engine.WithGravity(rl.Vector3{X: g[0], Y: g[1], Z: g[2]}))
	}
	s := engine.NewScene(sf.Name, registry, opts...)

	l := &loader{
		scene:   s,
		logger:  s.Logger(),
		seen:    make(map[uuid.UUID]bool),
	}
	for i := range sf.Objects {
		if _, err := l.node(&sf.Objects[i], nil); err != nil {
			s.Close()
			return nil, err
		}
	}
	if err := l.linkParents(); err != nil {
		s.Close()
		return nil, err
	}

	if sf.MainCamera != "" {
		id, err := uuid.Parse(sf.MainCamera)
		if err != nil {
			s.Close()
			return nil, errors.Wrapf(ErrInvalidScene, "main camera %q", sf.MainCamera)
		}
		s.SetMainCameraGUID(id)
	}
	return s, nil
}

func (l *loader) node(rec *NodeRecord, parent *engine.GameObject) (*engine.GameObject, error) {
	id := uuid.Nil
	if rec.GUID != "" {
		parsed, err := uuid.Parse(rec.GUID)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidScene, "object %q guid %q", rec.Name, rec.GUID)
		}
		if l.seen[parsed] {
			return nil, errors.Wrapf(ErrInvalidScene, "duplicate guid %s", parsed)
		}
		l.seen[parsed] = true
		id = parsed
	}

	g := l.scene.CreateGameObjectWithGUID(rec.Name, id)
	g.Tags = rec.Tags
	g.SetPosition(rl.Vector3{X: rec.Position[0], Y: rec.Position[1], Z: rec.Position[2]})
	if rec.Rotation == [4]float32{} {
		g.SetRotation(rl.QuaternionIdentity())
	} else {
		g.SetRotation(rl.Quaternion{X: rec.Rotation[0], Y: rec.Rotation[1], Z: rec.Rotation[2], W: rec.Rotation[3]})
	}
	// Default scale to 1 if zero
	if rec.Scale == [3]float32{} {
		g.SetScale(rl.Vector3{X: 1, Y: 1, Z: 1})
	} else {
		g.SetScale(rl.Vector3{X: rec.Scale[0], Y: rec.Scale[1], Z: rec.Scale[2]})
	}

	if parent != nil {
		parent.AddChild(g)
	} else if rec.Parent != nil && *rec.Parent != "" {
		pid, err := uuid.Parse(*rec.Parent)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidScene, "object %q parent %q", rec.Name, *rec.Parent)
		}
		l.pending = append(l.pending, parentLink{child: g, parent: pid})
	}

	for _, c := range rec.Components {
		if err := l.component(g, c); err != nil {
			return nil, err
		}
	}
	for i := range rec.Children {
		if _, err := l.node(&rec.Children[i], g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (l *loader) component(g *engine.GameObject, rec ComponentRecord) error {
	registry := l.scene.Registry()
	if !registry.IsRegistered(rec.Type) {
		l.logger.Warn("dropping unknown component", zap.String("object", g.Name), zap.String("type", rec.Type))
		return nil
	}
	data := make(map[string]any, len(rec.Data))
	for k, v := range rec.Data {
		data[k] = v
	}
	var id uuid.UUID
	if raw, ok := data[guidKey].(string); ok {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return errors.Wrapf(ErrInvalidScene, "%s on %q: guid %q", rec.Type, g.Name, raw)
		}
		id = parsed
	}
	delete(data, guidKey)

	c, err := registry.Load(rec.Type, data)
	if err != nil {
		return errors.Wrapf(err, "object %q", g.Name)
	}
	if s, ok := c.(guidSetter); ok && id != uuid.Nil {
		s.SetGUID(id)
	}
	return errors.Wrapf(g.AddComponent(c), "object %q", g.Name)
}

func (l *loader) linkParents() error {
	for _, link := range l.pending {
		g, pid := link.child, link.parent
		parent, ok := l.scene.FindObjectByGUID(pid)
		if !ok {
			return errors.Wrapf(ErrInvalidScene, "object %q: parent %s not found", g.Name, pid)
		}
		if parent == g {
			return errors.Wrapf(ErrInvalidScene, "object %q is its own parent", g.Name)
		}
		parent.AddChild(g)
		if g.Parent() != parent {
			return errors.Wrapf(ErrInvalidScene, "object %q: parent %s would form a cycle", g.Name, pid)
		}
	}
	return nil
}

// LoadSceneFile reads the scene at path.
func LoadSceneFile(path string, registry *engine.Registry, opts ...engine.Option) (*engine.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scene")
	}
	defer f.Close()
	s, err := LoadScene(f, registry, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return s, nil
}

// --- Saving ---

// Snapshot captures s as a scene file. Components without a registered tag
// are skipped.
func Snapshot(s *engine.Scene) *SceneFile {
	gravity := s.Gravity()
	sf := &SceneFile{
		Name:    s.Name,
		Gravity: &[3]float32{gravity.X, gravity.Y, gravity.Z},
		Objects: []NodeRecord{},
	}
	if id := s.MainCameraGUID(); id != uuid.Nil {
		sf.MainCamera = id.String()
	}
	for _, g := range s.Objects() {
		if g.Parent() != nil || !g.Alive() {
			continue
		}
		sf.Objects = append(sf.Objects, record(s, g))
	}
	return sf
}

func record(s *engine.Scene, g *engine.GameObject) NodeRecord {
	p, q, sc := g.Position(), g.Rotation(), g.Scale()
	rec := NodeRecord{
		Name:       g.Name,
		GUID:       g.GUID().String(),
		Tags:       g.Tags,
		Position:   [3]float32{p.X, p.Y, p.Z},
		Rotation:   [4]float32{q.X, q.Y, q.Z, q.W},
		Scale:      [3]float32{sc.X, sc.Y, sc.Z},
		Components: ComponentList{},
	}
	if parent := g.Parent(); parent != nil {
		id := parent.GUID().String()
		rec.Parent = &id
	}

	for _, c := range g.Components() {
		tag, ok := s.Registry().TagOf(c)
		if !ok {
			s.Logger().Debug("skipping unregistered component", zap.String("object", g.Name), zap.String("type", typeName(c)))
			continue
		}
		data := map[string]any{}
		if ser, ok := c.(engine.Serializable); ok {
			for k, v := range ser.Serialize() {
				data[k] = v
			}
		}
		data[guidKey] = c.GUID().String()
		rec.Components = append(rec.Components, ComponentRecord{Type: tag, Data: data})
	}

	for _, child := range g.Children() {
		if child.Alive() {
			rec.Children = append(rec.Children, record(s, child))
		}
	}
	return rec
}

func typeName(c engine.Component) string {
	if ser, ok := c.(engine.Serializable); ok {
		return ser.TypeName()
	}
	return "unknown"
}

// SaveScene writes s as indented JSON.
func SaveScene(w io.Writer, s *engine.Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Snapshot(s)); err != nil {
		return errors.Wrap(err, "marshal scene")
	}
	return nil
}

// SaveSceneFile writes s to path through a temporary file, so a watcher never
// sees a half written scene.
func SaveSceneFile(path string, s *engine.Scene) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".scene-*.json")
	if err != nil {
		return errors.Wrap(err, "write scene")
	}
	defer os.Remove(tmp.Name())

	if err := SaveScene(tmp, s); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "write scene")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "write scene")
}
