package setup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlast/vt102/internal/core"
	"github.com/tlast/vt102/internal/screen"
	"github.com/tlast/vt102/internal/setup"
)

func rowText(t *testing.T, scr *screen.Screen, y, n int) string {
	t.Helper()
	b := make([]byte, n)
	for x := 0; x < n; x++ {
		c, err := scr.At(x, y)
		require.NoError(t, err)
		b[x] = c.Ch
	}
	return string(b)
}

func TestPaintBShowsVersionTagAndBothParameterBlocks(t *testing.T) {
	model := setup.Default()
	modes := core.NewState(nil)
	s := setup.NewSession(model, modes)
	scr := screen.New()

	s.Paint(scr, true)

	assert.Contains(t, rowText(t, scr, 3, scr.Cols), "VT102 firmware")
	assert.Contains(t, rowText(t, scr, 5, scr.Cols), "modem:")
	assert.Contains(t, rowText(t, scr, 6, scr.Cols), "printer:")
}

func TestPaintBReversesSelectedSideOnly(t *testing.T) {
	model := setup.Default()
	modes := core.NewState(nil)
	s := setup.NewSession(model, modes)
	s.ModemSide = true
	scr := screen.New()

	s.Paint(scr, true)
	modemCell, err := scr.At(0, 5)
	require.NoError(t, err)
	printerCell, err := scr.At(0, 6)
	require.NoError(t, err)
	assert.True(t, modemCell.Attrs.Reverse)
	assert.False(t, printerCell.Attrs.Reverse)

	s.ModemSide = false
	s.Paint(scr, true)
	modemCell, err = scr.At(0, 5)
	require.NoError(t, err)
	printerCell, err = scr.At(0, 6)
	require.NoError(t, err)
	assert.False(t, modemCell.Attrs.Reverse)
	assert.True(t, printerCell.Attrs.Reverse)
}
