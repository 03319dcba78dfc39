package uitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/go-drift/retain/pkg/geometry"
	"github.com/go-drift/retain/pkg/render"
)

// UpdateEnv is the environment variable that makes MatchesFile rewrite
// golden files instead of comparing against them.
const UpdateEnv = "RETAIN_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the primitive stream of the current graph and the
// commands of the last rendered frame.
type Snapshot struct {
	Primitives []PrimitiveRecord `json:"primitives"`
	Commands   []CommandRecord   `json:"commands,omitempty"`
}

// PrimitiveRecord is the serialized form of one primitive.
type PrimitiveRecord struct {
	ID        uint64     `json:"id"`
	Kind      string     `json:"kind"`
	Clip      [4]float64 `json:"clip"`
	Triangles int        `json:"triangles,omitempty"`
	Color     string     `json:"color,omitempty"`
	Text      string     `json:"text,omitempty"`
	Image     uint32     `json:"image,omitempty"`
}

// CommandRecord is the serialized form of one draw command.
type CommandRecord struct {
	Kind     string   `json:"kind"`
	Vertices int      `json:"vertices"`
	Scissor  [4]int32 `json:"scissor"`
	Image    uint32   `json:"image,omitempty"`
}

// CaptureSnapshot records the current state. Capturing draws the graph, so
// the Ui is clean afterwards.
func (t *Tester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{}
	for _, p := range t.Primitives() {
		snap.Primitives = append(snap.Primitives, recordPrimitive(p))
	}
	if t.frame != nil {
		for _, c := range t.frame.Commands {
			snap.Commands = append(snap.Commands, CommandRecord{
				Kind:     c.Kind.String(),
				Vertices: c.Len(),
				Scissor:  [4]int32{c.Scissor.X, c.Scissor.Y, c.Scissor.W, c.Scissor.H},
				Image:    uint32(c.Image),
			})
		}
	}
	return snap
}

func recordPrimitive(p render.Primitive) PrimitiveRecord {
	rec := PrimitiveRecord{
		ID:   uint64(p.ID),
		Kind: p.Kind.String(),
		Clip: rectArray(p.Clip),
	}
	switch p.Kind {
	case render.KindShape:
		rec.Triangles = len(p.Triangles)
		if len(p.Triangles) > 0 {
			rec.Color = p.Triangles[0][0].Color.Hex()
		}
	case render.KindImage:
		rec.Image = uint32(p.Image.ID)
		if !p.Image.Color.IsZero() {
			rec.Color = p.Image.Color.Hex()
		}
	case render.KindText:
		rec.Text = p.Text.Text
		rec.Color = p.Text.Color.Hex()
	}
	return rec
}

func rectArray(r geometry.Rect) [4]float64 {
	return [4]float64{round2(r.Left), round2(r.Top), round2(r.Right), round2(r.Bottom)}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When RETAIN_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to path, creating directories as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a unified diff from other to s, or "" when they are equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(other)
	b, _ := marshalSnapshot(s)
	if bytes.Equal(a, b) {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a)),
		B:        difflib.SplitLines(string(b)),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  2,
	})
	if err != nil {
		return fmt.Sprintf("snapshots differ (diff failed: %v)", err)
	}
	return diff
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
