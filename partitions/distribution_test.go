package partitions

import (
	"reflect"
	"testing"
)

func TestSplitTwoTriangles(t *testing.T) {
	vertices := [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	cells := [][]int{{0, 1, 2}, {1, 2, 3}}

	pieces, err := Split(vertices, cells, []int{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(pieces) != 2 {
		t.Fatalf("got %d pieces, want 2", len(pieces))
	}

	for r, p := range pieces {
		if len(p.Cells) != 1 {
			t.Errorf("piece %d has %d cells, want 1", r, len(p.Cells))
		}
		if len(p.Vertices) != 3 {
			t.Errorf("piece %d has %d vertices, want 3", r, len(p.Vertices))
		}
		if p.Dist.NumGlobalVertices() != 4 {
			t.Errorf("piece %d reports %d global vertices, want 4", r, p.Dist.NumGlobalVertices())
		}
	}

	if !reflect.DeepEqual(pieces[0].LocalToGlobalCell, []int{0}) ||
		!reflect.DeepEqual(pieces[1].LocalToGlobalCell, []int{1}) {
		t.Errorf("cell maps = %v, %v", pieces[0].LocalToGlobalCell, pieces[1].LocalToGlobalCell)
	}

	// Global vertices 1 and 2 sit on the shared diagonal.
	for r, p := range pieces {
		other := 1 - r
		for lv := 0; lv < 3; lv++ {
			gv := p.Dist.GlobalVertex(lv)
			sh := p.Dist.Sharers([]int{lv})
			if gv == 1 || gv == 2 {
				if !reflect.DeepEqual(sh, []int{other}) {
					t.Errorf("piece %d vertex %d (global %d): sharers %v, want [%d]", r, lv, gv, sh, other)
				}
			} else if len(sh) != 0 {
				t.Errorf("piece %d vertex %d (global %d): sharers %v, want none", r, lv, gv, sh)
			}
		}
	}
}

func TestSharersIntersection(t *testing.T) {
	d := NewDist([]int{0, 1, 2}, [][]int{{1, 2}, {2}, {1, 2, 3}}, 10)
	if got := d.Sharers([]int{0, 2}); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("Sharers(0,2) = %v, want [1 2]", got)
	}
	if got := d.Sharers([]int{0, 1, 2}); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("Sharers(0,1,2) = %v, want [2]", got)
	}
	if got := d.Sharers(nil); got != nil {
		t.Errorf("Sharers(nil) = %v, want nil", got)
	}
}

func TestSplitValidation(t *testing.T) {
	vertices := [][]float64{{0, 0}, {1, 0}, {0, 1}}
	cells := [][]int{{0, 1, 2}}

	if _, err := Split(vertices, cells, []int{0, 1}); err == nil {
		t.Error("expected error for mismatched eToP length")
	}
	if _, err := Split(vertices, cells, []int{-1}); err == nil {
		t.Error("expected error for negative partition")
	}
	if _, err := Split(vertices, nil, nil); err == nil {
		t.Error("expected error for empty assignment")
	}
}
