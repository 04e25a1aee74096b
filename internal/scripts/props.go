package scripts

import rl "github.com/gen2brain/raylib-go/raylib"

// number reads a numeric property. Scene files decode numbers as float64,
// in-memory blobs carry float32.
func number(props map[string]any, key string, fallback float32) float32 {
	switch v := props[key].(type) {
	case float64:
		return float32(v)
	case float32:
		return v
	case int:
		return float32(v)
	}
	return fallback
}

func text(props map[string]any, key, fallback string) string {
	if v, ok := props[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func vector(props map[string]any, key string) (rl.Vector3, bool) {
	var xyz [3]float32
	switch list := props[key].(type) {
	case []float32:
		if len(list) != 3 {
			return rl.Vector3{}, false
		}
		copy(xyz[:], list)
	case []any:
		if len(list) != 3 {
			return rl.Vector3{}, false
		}
		for i, item := range list {
			f, ok := item.(float64)
			if !ok {
				return rl.Vector3{}, false
			}
			xyz[i] = float32(f)
		}
	default:
		return rl.Vector3{}, false
	}
	return rl.Vector3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, true
}
