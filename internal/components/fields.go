package components

import (
	"encoding/json"

	"otter/internal/assets"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

// Component blobs come either straight from Serialize (float32, []float32)
// or from a decoded JSON document (float64, []any). The readers below accept
// both so a blob can be loaded in either form.

func toFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int:
		return float32(n), true
	case int32:
		return float32(n), true
	case int64:
		return float32(n), true
	case json.Number:
		f, err := n.Float64()
		return float32(f), err == nil
	}
	return 0, false
}

func toFloats(v any) ([]float32, bool) {
	switch list := v.(type) {
	case []float32:
		return list, true
	case []float64:
		out := make([]float32, len(list))
		for i, f := range list {
			out[i] = float32(f)
		}
		return out, true
	case []any:
		out := make([]float32, len(list))
		for i, item := range list {
			f, ok := toFloat(item)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}

// readFloat stores data[key] into dst when present.
func readFloat(data map[string]any, key string, dst *float32) error {
	v, ok := data[key]
	if !ok {
		return nil
	}
	f, ok := toFloat(v)
	if !ok {
		return errors.Errorf("%s: expected a number, got %T", key, v)
	}
	*dst = f
	return nil
}

func readVec3(data map[string]any, key string, dst *rl.Vector3) error {
	v, ok := data[key]
	if !ok {
		return nil
	}
	f, ok := toFloats(v)
	if !ok || len(f) != 3 {
		return errors.Errorf("%s: expected 3 numbers", key)
	}
	*dst = rl.Vector3{X: f[0], Y: f[1], Z: f[2]}
	return nil
}

// readQuat reads an [x, y, z, w] quaternion.
func readQuat(data map[string]any, key string, dst *rl.Quaternion) error {
	v, ok := data[key]
	if !ok {
		return nil
	}
	if name, ok := v.(string); ok {
		c, found := assets.LookupColor(name)
		if !found {
			return errors.Errorf("%s: unknown color %q", key, name)
		}
		*dst = c
		return nil
	}
	f, ok := toFloats(v)
	if !ok || len(f) != 4 {
		return errors.Errorf("%s: expected 4 numbers or a color name", key)
	}
	*dst = rl.QuaternionNormalize(rl.Quaternion{X: f[0], Y: f[1], Z: f[2], W: f[3]})
	return nil
}

func readString(data map[string]any, key string, dst *string) error {
	v, ok := data[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return errors.Errorf("%s: expected a string, got %T", key, v)
	}
	*dst = s
	return nil
}

func readBool(data map[string]any, key string, dst *bool) error {
	v, ok := data[key]
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return errors.Errorf("%s: expected a bool, got %T", key, v)
	}
	*dst = b
	return nil
}

func readInt32(data map[string]any, key string, dst *int32) error {
	var f float32
	if err := readFloat(data, key, &f); err != nil {
		return err
	}
	if _, ok := data[key]; ok {
		*dst = int32(f)
	}
	return nil
}

// readMaps returns data[key] as a list of objects.
func readMaps(data map[string]any, key string) ([]map[string]any, error) {
	v, ok := data[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []map[string]any:
		return list, nil
	case []any:
		out := make([]map[string]any, 0, len(list))
		for i, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, errors.Errorf("%s[%d]: expected an object, got %T", key, i, item)
			}
			out = append(out, m)
		}
		return out, nil
	}
	return nil, errors.Errorf("%s: expected a list, got %T", key, v)
}

func vec3Value(v rl.Vector3) []float32 { return []float32{v.X, v.Y, v.Z} }

func quatValue(q rl.Quaternion) []float32 { return []float32{q.X, q.Y, q.Z, q.W} }

func colorValue(c rl.Color) []float32 {
	return []float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

func readColor(data map[string]any, key string, dst *rl.Color) error {
	v, ok := data[key]
	if !ok {
		return nil
	}
	if name, ok := v.(string); ok {
		c, found := assets.LookupColor(name)
		if !found {
			return errors.Errorf("%s: unknown color %q", key, name)
		}
		*dst = c
		return nil
	}
	f, ok := toFloats(v)
	if !ok || len(f) != 4 {
		return errors.Errorf("%s: expected 4 numbers or a color name", key)
	}
	*dst = rl.Color{R: uint8(f[0]), G: uint8(f[1]), B: uint8(f[2]), A: uint8(f[3])}
	return nil
}
