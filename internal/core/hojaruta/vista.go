package hojaruta

// Encabezado is the document header printed on every page of a slip.
type Encabezado struct {
	NumeroHR                 string   `json:"numero_hr" yaml:"numero_hr"`
	Referencia               string   `json:"referencia" yaml:"referencia"`
	Prioridad                string   `json:"prioridad" yaml:"prioridad"`
	Estado                   string   `json:"estado" yaml:"estado"`
	Solicitante              string   `json:"nombre_solicitante" yaml:"nombre_solicitante"`
	Telefono                 string   `json:"telefono_celular" yaml:"telefono_celular"`
	Procedencia              string   `json:"procedencia" yaml:"procedencia"`
	FechaDocumento           string   `json:"fecha_documento" yaml:"fecha_documento"`
	FechaIngreso             string   `json:"fecha_ingreso" yaml:"fecha_ingreso"`
	FechaLimite              string   `json:"fecha_limite" yaml:"fecha_limite"`
	Destino                  string   `json:"destino" yaml:"destino"`
	Destinos                 []string `json:"destinos" yaml:"destinos"`
	InstruccionesAdicionales string   `json:"instrucciones_adicionales" yaml:"instrucciones_adicionales"`
}

// Vista is the print/PDF layout of a routing slip.
type Vista struct {
	Encabezado   Encabezado               `json:"encabezado" yaml:"encabezado"`
	Paginas      Paginacion[SeccionVista] `json:"paginas" yaml:"paginas"`
	TotalPaginas int                      `json:"total_paginas" yaml:"total_paginas"`
}

// BuildPreview runs a raw record through reconciliation, response overlay and
// pagination, normalizing every displayed date.
func BuildPreview(r Registro, respuestas []RespuestaUnidad) Vista {
	estado := r.String("estado")
	if e, err := ParseEstado(estado); err == nil {
		estado = e.Vista()
	}

	enc := Encabezado{
		NumeroHR:                 r.String("numero_hr"),
		Referencia:               r.String("referencia"),
		Prioridad:                r.String("prioridad"),
		Estado:                   estado,
		Solicitante:              r.String("nombre_solicitante"),
		Telefono:                 r.String("telefono_celular"),
		Procedencia:              r.String("procedencia"),
		FechaDocumento:           FormatDate(r.String("fecha_documento")),
		FechaIngreso:             FormatDate(r.String("fecha_ingreso")),
		FechaLimite:              FormatDate(r.String("fecha_limite")),
		Destino:                  r.String("destino"),
		Destinos:                 r.Strings("destinos"),
		InstruccionesAdicionales: r.String("instrucciones_adicionales"),
	}

	secciones := Overlay(Reconcile(r), respuestas)
	for i := range secciones {
		secciones[i].FechaEnviado = FormatDate(secciones[i].FechaEnviado)
		secciones[i].FechaRecepcion = FormatDate(secciones[i].FechaRecepcion)
	}

	paginas := Paginate(secciones)
	return Vista{
		Encabezado:   enc,
		Paginas:      paginas,
		TotalPaginas: paginas.TotalPaginas(),
	}
}
