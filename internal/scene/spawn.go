package scene

import (
	"go.uber.org/zap"

	"github.com/quarry2d/quarry/internal/component"
	"github.com/quarry2d/quarry/internal/core/ecs"
	"github.com/quarry2d/quarry/internal/data"
)

// Populate applies a scene definition: gravity first, then one entity per
// definition. Call before Play so the first Update binds everything at once.
func (s *Scene) Populate(def *data.SceneDef) {
	s.driver.SetGravity(def.Gravity.X, def.Gravity.Y)
	for i := range def.Entities {
		e := s.Spawn(&def.Entities[i])
		s.log.Debug("spawned entity",
			zap.String("name", def.Entities[i].Name),
			zap.Uint64("entity", uint64(e)))
	}
}

// Spawn creates one entity from a definition and attaches its components.
func (s *Scene) Spawn(def *data.EntityDef) ecs.Entity {
	e := s.pool.Create()

	s.transforms.Set(e, &component.Transform{
		X:      def.Transform.X,
		Y:      def.Transform.Y,
		Angle:  def.Transform.Angle,
		ScaleX: def.Transform.ScaleX,
		ScaleY: def.Transform.ScaleY,
	})

	if rb := def.RigidBody; rb != nil {
		s.bodies.Set(e, &component.RigidBody{
			Type:            bodyType(rb.Type),
			FixedRotation:   rb.FixedRotation,
			GravityScale:    rb.GravityScale,
			LinearDamping:   rb.LinearDamping,
			AngularDamping:  rb.AngularDamping,
			VelocityX:       rb.VelocityX,
			VelocityY:       rb.VelocityY,
			AngularVelocity: rb.AngularVelocity,
		})
	}
	if bc := def.BoxCollider; bc != nil {
		s.boxes.Set(e, &component.BoxCollider{
			OffsetX:    bc.OffsetX,
			OffsetY:    bc.OffsetY,
			HalfWidth:  bc.HalfWidth,
			HalfHeight: bc.HalfHeight,
			Material:   material(bc.MaterialDef),
		})
	}
	if cc := def.CircleCollider; cc != nil {
		s.circles.Set(e, &component.CircleCollider{
			OffsetX:  cc.OffsetX,
			OffsetY:  cc.OffsetY,
			Radius:   cc.Radius,
			Material: material(cc.MaterialDef),
		})
	}

	return e
}

func bodyType(name string) component.BodyType {
	switch name {
	case "kinematic":
		return component.BodyKinematic
	case "dynamic":
		return component.BodyDynamic
	}
	return component.BodyStatic
}

func material(m data.MaterialDef) component.Material {
	return component.Material{
		Density:              m.Density,
		Friction:             m.Friction,
		Restitution:          m.Restitution,
		RestitutionThreshold: m.RestitutionThreshold,
		Sensor:               m.Sensor,
	}
}
