package hojaruta

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ordinales(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name           string
		n              int
		wantPrimera    []int
		wantPaginas    [][]int
		wantTotalPages int
	}{
		{name: "empty", n: 0, wantPrimera: []int{}, wantPaginas: nil, wantTotalPages: 1},
		{name: "fits first page", n: 3, wantPrimera: []int{1, 2, 3}, wantPaginas: nil, wantTotalPages: 1},
		{name: "one extra", n: 4, wantPrimera: []int{1, 2, 3}, wantPaginas: [][]int{{4}}, wantTotalPages: 2},
		{name: "exactly one continuation", n: 7, wantPrimera: []int{1, 2, 3}, wantPaginas: [][]int{{4, 5, 6, 7}}, wantTotalPages: 2},
		{name: "partial second continuation", n: 11, wantPrimera: []int{1, 2, 3}, wantPaginas: [][]int{{4, 5, 6, 7}, {8, 9, 10, 11}}, wantTotalPages: 3},
		{name: "three continuations", n: 12, wantPrimera: []int{1, 2, 3}, wantPaginas: [][]int{{4, 5, 6, 7}, {8, 9, 10, 11}, {12}}, wantTotalPages: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(ordinales(tt.n))

			if diff := cmp.Diff(tt.wantPrimera, p.Primera); diff != "" {
				t.Errorf("first page mismatch (-want +got):\n%s", diff)
			}

			if len(p.Continuaciones) != len(tt.wantPaginas) {
				t.Fatalf("expected %d continuation pages, got %d", len(tt.wantPaginas), len(p.Continuaciones))
			}
			if ContinuationPages(tt.n) != len(tt.wantPaginas) {
				t.Errorf("ContinuationPages(%d) = %d, want %d", tt.n, ContinuationPages(tt.n), len(tt.wantPaginas))
			}

			for i, pagina := range p.Continuaciones {
				if pagina.Numero != i+2 {
					t.Errorf("expected page number %d, got %d", i+2, pagina.Numero)
				}
				if pagina.Offset != (i+1)*PageOffset {
					t.Errorf("page %d: expected offset %d, got %d", pagina.Numero, (i+1)*PageOffset, pagina.Offset)
				}
				if !pagina.SaltoPagina {
					t.Errorf("page %d: expected page break flag", pagina.Numero)
				}
				if diff := cmp.Diff(tt.wantPaginas[i], pagina.Secciones); diff != "" {
					t.Errorf("page %d mismatch (-want +got):\n%s", pagina.Numero, diff)
				}
			}

			if p.TotalPaginas() != tt.wantTotalPages {
				t.Errorf("expected %d total pages, got %d", tt.wantTotalPages, p.TotalPaginas())
			}
		})
	}
}
