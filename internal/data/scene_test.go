package data

import (
	"os"
	"path/filepath"
	"testing"
)

func writeScene(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSceneFull(t *testing.T) {
	path := writeScene(t, `
name: level1
gravity:
  x: 0.0
  y: -9.8
entities:
  - name: ground
    transform: {x: 0.0, y: -2.0}
    rigidbody: {type: static}
    box_collider: {half_width: 20.0, half_height: 0.5, friction: 0.6}
  - name: ball
    transform: {x: 1.0, y: 4.0, scale_x: 2.0}
    rigidbody: {type: dynamic, velocity_x: 3.0, linear_damping: 0.1}
    circle_collider: {radius: 0.4, restitution: 0.7, density: 2.0}
`)
	def, err := LoadScene(path)
	if err != nil {
		t.Fatal(err)
	}
	if def.Name != "level1" {
		t.Fatalf("Name = %q", def.Name)
	}
	if def.Gravity.Y != -9.8 {
		t.Fatalf("Gravity.Y = %v", def.Gravity.Y)
	}
	if len(def.Entities) != 2 {
		t.Fatalf("len(Entities) = %d", len(def.Entities))
	}

	ground := def.Entities[0]
	if ground.RigidBody.Type != "static" {
		t.Fatalf("ground type = %q", ground.RigidBody.Type)
	}
	if ground.BoxCollider.HalfWidth != 20 || ground.BoxCollider.Friction != 0.6 {
		t.Fatalf("ground collider = %+v", ground.BoxCollider)
	}

	ball := def.Entities[1]
	if ball.Transform.ScaleX != 2 {
		t.Fatalf("ball ScaleX = %v", ball.Transform.ScaleX)
	}
	if ball.CircleCollider.Radius != 0.4 || ball.CircleCollider.Density != 2 {
		t.Fatalf("ball collider = %+v", ball.CircleCollider)
	}
	if ball.RigidBody.VelocityX != 3 {
		t.Fatalf("ball velocity = %v", ball.RigidBody.VelocityX)
	}
}

func TestLoadSceneDefaults(t *testing.T) {
	path := writeScene(t, `
name: defaults
entities:
  - name: thing
    transform: {x: 1.0, y: 2.0}
    rigidbody: {type: dynamic}
    box_collider: {half_width: 0.5, half_height: 0.5}
`)
	def, err := LoadScene(path)
	if err != nil {
		t.Fatal(err)
	}
	ent := def.Entities[0]
	if ent.Transform.ScaleX != 1 || ent.Transform.ScaleY != 1 {
		t.Fatalf("zero scales not normalized: %+v", ent.Transform)
	}
	if ent.RigidBody.GravityScale != 1 {
		t.Fatalf("GravityScale = %v, want 1", ent.RigidBody.GravityScale)
	}
	if ent.BoxCollider.Density != 1 {
		t.Fatalf("Density = %v, want 1", ent.BoxCollider.Density)
	}
	if ent.BoxCollider.RestitutionThreshold != 0.5 {
		t.Fatalf("RestitutionThreshold = %v, want 0.5", ent.BoxCollider.RestitutionThreshold)
	}
}

func TestLoadSceneEmptyBodyTypeDefaultsToStatic(t *testing.T) {
	path := writeScene(t, `
entities:
  - name: wall
    rigidbody: {}
`)
	def, err := LoadScene(path)
	if err != nil {
		t.Fatal(err)
	}
	if def.Entities[0].RigidBody.Type != "static" {
		t.Fatalf("Type = %q, want static", def.Entities[0].RigidBody.Type)
	}
}

func TestLoadSceneRejectsUnknownBodyType(t *testing.T) {
	path := writeScene(t, `
entities:
  - name: bad
    rigidbody: {type: floaty}
`)
	if _, err := LoadScene(path); err == nil {
		t.Fatal("unknown body type accepted")
	}
}

func TestLoadSceneRejectsColliderWithoutRigidBody(t *testing.T) {
	path := writeScene(t, `
entities:
  - name: orphan
    box_collider: {half_width: 1.0, half_height: 1.0}
`)
	if _, err := LoadScene(path); err == nil {
		t.Fatal("collider without rigidbody accepted")
	}
}

func TestLoadSceneRejectsBadExtents(t *testing.T) {
	cases := []string{
		`
entities:
  - name: flat
    rigidbody: {type: static}
    box_collider: {half_width: 0.0, half_height: 1.0}
`,
		`
entities:
  - name: point
    rigidbody: {type: static}
    circle_collider: {radius: -1.0}
`,
	}
	for _, yaml := range cases {
		path := writeScene(t, yaml)
		if _, err := LoadScene(path); err == nil {
			t.Fatalf("bad extents accepted:\n%s", yaml)
		}
	}
}

func TestLoadSceneMissingFile(t *testing.T) {
	if _, err := LoadScene(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestLoadSceneMalformedYAML(t *testing.T) {
	path := writeScene(t, "entities: [not closed")
	if _, err := LoadScene(path); err == nil {
		t.Fatal("malformed yaml accepted")
	}
}
