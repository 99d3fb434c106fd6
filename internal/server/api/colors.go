package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/huedetect/internal/detector"
	"github.com/ayusman/huedetect/internal/hsv"
	"github.com/ayusman/huedetect/internal/palette"
)

type colorResponse struct {
	Name   string          `json:"name"`
	Hex    string          `json:"hex"`
	Sample [3]int          `json:"sample_bgr"`
	HSV    [3]int          `json:"hsv"`
	Ranges []rangeResponse `json:"ranges"`

	// Calculated is the raw calculator window, which may leave the channel
	// ranges; CalculatedClamped is the same window limited to them.
	Calculated        rangeResponse `json:"calculated"`
	CalculatedClamped rangeResponse `json:"calculated_clamped"`
}

type listColorsResponse struct {
	Colors []colorResponse `json:"colors"`
}

// ColorsHandler serves the palette together with the ranges each color is detected with.
type ColorsHandler struct{}

// NewColorsHandler creates a new ColorsHandler.
func NewColorsHandler() *ColorsHandler {
	return &ColorsHandler{}
}

// ServeHTTP handles GET /api/colors.
func (h *ColorsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries := palette.All()
	response := listColorsResponse{
		Colors: make([]colorResponse, 0, len(entries)),
	}

	for _, e := range entries {
		target, err := detector.NewTarget(e.Name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to build color ranges")
			return
		}
		hsvValue, err := hsv.ToHSV(e.Sample)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to convert color sample")
			return
		}
		calculated, err := hsv.ComputeBounds(e.Sample)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to compute color bounds")
			return
		}

		response.Colors = append(response.Colors, colorResponse{
			Name:   strings.ToLower(e.Name.String()),
			Hex:    e.Name.Hex(),
			Sample: [3]int{e.Sample.B, e.Sample.G, e.Sample.R},
			HSV:    [3]int{hsvValue.H, hsvValue.S, hsvValue.V},
			Ranges: toRangeResponses(target.Ranges),

			Calculated:        toRangeResponse(calculated),
			CalculatedClamped: toRangeResponse(calculated.Clamped()),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
