package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"requestlog-backend/utils"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 12.35, utils.Round2(12.346))
	assert.Equal(t, 12.34, utils.Round2(12.344))
	assert.Equal(t, 0.0, utils.Round2(0))
	assert.Equal(t, -3.33, utils.Round2(-3.333))
}

func TestNormalizeDTOTrimsAndRounds(t *testing.T) {
	dto := struct {
		Reference string
		Amount    float64
	}{Reference: "  inv-1  ", Amount: 9.999}

	utils.NormalizeDTO(&dto)

	assert.Equal(t, "inv-1", dto.Reference)
	assert.Equal(t, 10.0, dto.Amount)
}

func TestNormalizePtrDTOSkipsNilFields(t *testing.T) {
	ref := "  ref  "
	dto := struct {
		Reference *string
		Note      *string
		Amount    *float64
	}{Reference: &ref}

	utils.NormalizePtrDTO(&dto)

	assert.Equal(t, "ref", *dto.Reference)
	assert.Nil(t, dto.Note)
	assert.Nil(t, dto.Amount)
}
