package chartsapi

// Chart kinds the dashboard can render for a combination column.
const (
	KindLine          = "line"
	KindBar           = "bar"
	KindArea          = "area"
	KindPie           = "pie"
	KindAgePyramid    = "age-pyramid"
	KindChoroplethMap = "choropleth-map"
)

// AllKinds lists every chart kind in column display order.
var AllKinds = []string{KindLine, KindBar, KindArea, KindPie, KindAgePyramid, KindChoroplethMap}

// ChartError is a structured, user-displayable failure for one chart card.
// The dashboard renders it in place of the chart; an error in one card never
// suppresses the other cards.
type ChartError struct {
	Code       string `json:"code"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ChartPayload is one chart card: either Data (shape depends on Kind) or a
// structured Error, never both.
type ChartPayload struct {
	Kind          string      `json:"kind"`
	CombinationID string      `json:"combination_id"`
	Label         string      `json:"label"`
	Color         string      `json:"color"`
	Data          any         `json:"data,omitempty"`
	Error         *ChartError `json:"error,omitempty"`
}

func noDataError() *ChartError {
	return &ChartError{
		Code:       "no_data",
		Title:      "Sin datos",
		Message:    "No hay casos notificados para la selección actual.",
		Suggestion: "Ajustá el rango de semanas o los filtros de la combinación.",
	}
}

func queryFailedError() *ChartError {
	return &ChartError{
		Code:       "query_failed",
		Title:      "Error al consultar",
		Message:    "No se pudieron calcular los datos del gráfico.",
		Suggestion: "Reintentá en unos segundos.",
	}
}

func unknownKindError(kind string) *ChartError {
	return &ChartError{
		Code:    "unknown_kind",
		Title:   "Gráfico no soportado",
		Message: "El tipo de gráfico \"" + kind + "\" no existe.",
	}
}
