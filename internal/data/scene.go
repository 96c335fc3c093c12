// Package data loads scene definitions from YAML files.
package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SceneDef is one scene file: gravity plus a list of entity definitions.
type SceneDef struct {
	Name     string      `yaml:"name"`
	Gravity  GravityDef  `yaml:"gravity"`
	Entities []EntityDef `yaml:"entities"`
}

type GravityDef struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// EntityDef declares one entity. Rigidbody and colliders are optional;
// an entity with a rigidbody and no collider gets a default fixture from the
// physics driver when it is dynamic.
type EntityDef struct {
	Name           string             `yaml:"name"`
	Transform      TransformDef       `yaml:"transform"`
	RigidBody      *RigidBodyDef      `yaml:"rigidbody"`
	BoxCollider    *BoxColliderDef    `yaml:"box_collider"`
	CircleCollider *CircleColliderDef `yaml:"circle_collider"`
}

// TransformDef: zero scales load as one.
type TransformDef struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Angle  float64 `yaml:"angle"`
	ScaleX float64 `yaml:"scale_x"`
	ScaleY float64 `yaml:"scale_y"`
}

// RigidBodyDef: Type is "static", "kinematic", or "dynamic". A zero gravity
// scale loads as one.
type RigidBodyDef struct {
	Type            string  `yaml:"type"`
	FixedRotation   bool    `yaml:"fixed_rotation"`
	GravityScale    float64 `yaml:"gravity_scale"`
	LinearDamping   float64 `yaml:"linear_damping"`
	AngularDamping  float64 `yaml:"angular_damping"`
	VelocityX       float64 `yaml:"velocity_x"`
	VelocityY       float64 `yaml:"velocity_y"`
	AngularVelocity float64 `yaml:"angular_velocity"`
}

// MaterialDef: a zero density loads as one; a zero restitution threshold
// loads as the backend default.
type MaterialDef struct {
	Density              float64 `yaml:"density"`
	Friction             float64 `yaml:"friction"`
	Restitution          float64 `yaml:"restitution"`
	RestitutionThreshold float64 `yaml:"restitution_threshold"`
	Sensor               bool    `yaml:"sensor"`
}

type BoxColliderDef struct {
	OffsetX     float64 `yaml:"offset_x"`
	OffsetY     float64 `yaml:"offset_y"`
	HalfWidth   float64 `yaml:"half_width"`
	HalfHeight  float64 `yaml:"half_height"`
	MaterialDef `yaml:",inline"`
}

type CircleColliderDef struct {
	OffsetX     float64 `yaml:"offset_x"`
	OffsetY     float64 `yaml:"offset_y"`
	Radius      float64 `yaml:"radius"`
	MaterialDef `yaml:",inline"`
}

var validBodyTypes = map[string]struct{}{
	"static":    {},
	"kinematic": {},
	"dynamic":   {},
}

// LoadScene reads and validates a scene definition file.
func LoadScene(path string) (*SceneDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	var def SceneDef
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	for i := range def.Entities {
		ent := &def.Entities[i]
		normalizeEntity(ent)
		if err := validateEntity(ent); err != nil {
			return nil, fmt.Errorf("scene %s entity %q: %w", path, ent.Name, err)
		}
	}
	return &def, nil
}

func normalizeEntity(ent *EntityDef) {
	if ent.Transform.ScaleX == 0 {
		ent.Transform.ScaleX = 1
	}
	if ent.Transform.ScaleY == 0 {
		ent.Transform.ScaleY = 1
	}
	if rb := ent.RigidBody; rb != nil {
		if rb.Type == "" {
			rb.Type = "static"
		}
		if rb.GravityScale == 0 {
			rb.GravityScale = 1
		}
	}
	if bc := ent.BoxCollider; bc != nil {
		normalizeMaterial(&bc.MaterialDef)
	}
	if cc := ent.CircleCollider; cc != nil {
		normalizeMaterial(&cc.MaterialDef)
	}
}

func normalizeMaterial(m *MaterialDef) {
	if m.Density == 0 {
		m.Density = 1
	}
	if m.RestitutionThreshold == 0 {
		m.RestitutionThreshold = 0.5
	}
}

func validateEntity(ent *EntityDef) error {
	if rb := ent.RigidBody; rb != nil {
		if _, ok := validBodyTypes[rb.Type]; !ok {
			return fmt.Errorf("unknown rigidbody type %q", rb.Type)
		}
	}
	if (ent.BoxCollider != nil || ent.CircleCollider != nil) && ent.RigidBody == nil {
		return fmt.Errorf("collider requires a rigidbody")
	}
	if bc := ent.BoxCollider; bc != nil {
		if bc.HalfWidth <= 0 || bc.HalfHeight <= 0 {
			return fmt.Errorf("box collider half extents must be positive")
		}
	}
	if cc := ent.CircleCollider; cc != nil {
		if cc.Radius <= 0 {
			return fmt.Errorf("circle collider radius must be positive")
		}
	}
	return nil
}
