package hojaruta

const (
	// FirstPageCapacity is the number of sections printed on page 1, below the
	// document header.
	FirstPageCapacity = 3
	// ContinuationPageCapacity is the number of sections on every later page.
	ContinuationPageCapacity = 4
	// PageOffset is the vertical distance, in CSS pixels, between the tops of
	// consecutive printed pages (A4 at 96 dpi).
	PageOffset = 1123
)

// Pagina is a continuation page of the print layout.
type Pagina[T any] struct {
	Numero    int `json:"numero" yaml:"numero"`
	Offset    int `json:"offset" yaml:"offset"`
	Secciones []T `json:"secciones" yaml:"secciones"`
	// SaltoPagina asks renderers with native page-break control to break
	// before this page instead of relying on Offset.
	SaltoPagina bool `json:"salto_pagina" yaml:"salto_pagina"`
}

// Paginacion splits sections between the first page and continuation pages.
type Paginacion[T any] struct {
	Primera        []T         `json:"primera" yaml:"primera"`
	Continuaciones []Pagina[T] `json:"continuaciones" yaml:"continuaciones"`
}

// TotalPaginas returns the number of printed pages, first page included.
func (p Paginacion[T]) TotalPaginas() int {
	return 1 + len(p.Continuaciones)
}

// Paginate places up to FirstPageCapacity sections on the first page and
// splits the remainder into pages of ContinuationPageCapacity; the last page
// may be partial. Continuation pages are numbered from 2.
func Paginate[T any](secciones []T) Paginacion[T] {
	p := Paginacion[T]{Continuaciones: []Pagina[T]{}}

	if len(secciones) <= FirstPageCapacity {
		p.Primera = secciones
		return p
	}

	p.Primera = secciones[:FirstPageCapacity]
	resto := secciones[FirstPageCapacity:]
	total := ContinuationPages(len(secciones))
	for i := 0; i < total; i++ {
		start := i * ContinuationPageCapacity
		end := min(start+ContinuationPageCapacity, len(resto))
		numero := i + 2
		p.Continuaciones = append(p.Continuaciones, Pagina[T]{
			Numero:      numero,
			Offset:      (numero - 1) * PageOffset,
			Secciones:   resto[start:end],
			SaltoPagina: true,
		})
	}
	return p
}

// ContinuationPages returns ceil((n-3)/4) for n sections, or 0 when all fit on
// the first page.
func ContinuationPages(n int) int {
	if n <= FirstPageCapacity {
		return 0
	}
	return (n - FirstPageCapacity + ContinuationPageCapacity - 1) / ContinuationPageCapacity
}
