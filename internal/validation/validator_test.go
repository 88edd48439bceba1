package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	carouselerrors "github.com/BillMorio/LinkedIn-Carousel/pkg/errors"
)

type sample struct {
	Brand  string `json:"brandColor" validate:"required,css_color"`
	Ratio  string `json:"aspectRatio" validate:"oneof=square portrait"`
	Margin string `json:"marginTop" validate:"omitempty,css_length"`
	ID     string `json:"id" validate:"required,slug"`
}

func TestStructAcceptsValidValues(t *testing.T) {
	t.Parallel()

	err := Struct(sample{Brand: "#DC2626", Ratio: "portrait", Margin: "12px", ID: "sales-stack"})
	require.NoError(t, err)
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	t.Parallel()

	err := Struct(sample{Brand: "#DC2626", Ratio: "landscape", ID: "ok"})
	require.Error(t, err)

	var validationErr *carouselerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "aspectRatio", validationErr.Field)
	require.Contains(t, validationErr.Message, "oneof")
}

func TestIsColor(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"#fff", "#FED7AA", "#00000080", "rgb(0, 0, 0)", "rgba(1,2,3,0.5)", "white"} {
		require.True(t, IsColor(value), value)
	}
	for _, value := range []string{"", "#12", "#GGGGGG", "12px", "rgb("} {
		require.False(t, IsColor(value), value)
	}
}

func TestVarNamesField(t *testing.T) {
	t.Parallel()

	err := Var("styles.headline.fontSize", "huge", "css_length")
	require.Error(t, err)
	require.Contains(t, err.Error(), "styles.headline.fontSize")

	require.NoError(t, Var("gap", "1.5rem", "css_length"))
}
