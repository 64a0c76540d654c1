package render

import (
	"fmt"
	"testing"

	"honnef.co/go/curve"

	"github.com/sectorviz/sectorviz/pkg/errors"
	"github.com/sectorviz/sectorviz/pkg/render/geom"
	"github.com/sectorviz/sectorviz/pkg/style"
)

// recordingSink captures the call sequence Render makes.
type recordingSink struct {
	calls     []string
	failDraw  bool
	failFinal bool
}

func (s *recordingSink) Begin(canvas geom.Size, origin curve.Point, background style.Color) error {
	s.calls = append(s.calls, fmt.Sprintf("begin %gx%g", canvas.W, canvas.H))
	return nil
}

func (s *recordingSink) DrawWedge(p Primitive) error {
	if s.failDraw {
		return errors.New(errors.ErrCodeBackend, "draw failed")
	}
	s.calls = append(s.calls, fmt.Sprintf("wedge layer=%d", p.Layer))
	return nil
}

func (s *recordingSink) BlendLayer(mode style.BlendMode) error {
	s.calls = append(s.calls, "blend "+mode.String())
	return nil
}

func (s *recordingSink) Finish() ([]byte, error) {
	if s.failFinal {
		return nil, fmt.Errorf("encoder broke")
	}
	s.calls = append(s.calls, "finish")
	return []byte("out"), nil
}

func TestRenderCallSequence(t *testing.T) {
	plan := testPlan(t, 1, 1)
	prims := []Primitive{
		{Layer: LayerTrack},
		{Layer: LayerElement},
		{Layer: LayerMask},
	}
	sink := &recordingSink{}

	out, err := Render(sink, plan, prims, style.Color{A: 255}, style.BlendMultiply)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(out) != "out" {
		t.Errorf("output = %q", out)
	}

	want := []string{
		"begin 400x400",
		"wedge layer=0",
		"wedge layer=1",
		"wedge layer=2",
		"blend Multiply",
		"finish",
	}
	if len(sink.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", sink.calls, want)
	}
	for i := range want {
		if sink.calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, sink.calls[i], want[i])
		}
	}
}

func TestRenderPropagatesDrawError(t *testing.T) {
	sink := &recordingSink{failDraw: true}
	_, err := Render(sink, testPlan(t, 1, 1), []Primitive{{}}, style.Color{}, style.BlendNormal)
	if !errors.Is(err, errors.ErrCodeBackend) {
		t.Errorf("err = %v, want BACKEND_ERROR", err)
	}
}

func TestRenderWrapsFinishError(t *testing.T) {
	sink := &recordingSink{failFinal: true}
	_, err := Render(sink, testPlan(t, 1, 1), nil, style.Color{}, style.BlendNormal)
	if !errors.Is(err, errors.ErrCodeBackend) {
		t.Errorf("err = %v, want BACKEND_ERROR wrapping encoder failure", err)
	}
}
