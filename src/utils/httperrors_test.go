package utils_test

import (
	"dashboard/src/utils"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		err     error
		code    int
		message string
	}{
		{utils.NotFound("report not found"), http.StatusNotFound, "report not found"},
		{utils.Unprocessable(`invalid time zone: "Mars/Base"`), http.StatusUnprocessableEntity, `invalid time zone: "Mars/Base"`},
		{fmt.Errorf("wrapped: %w", utils.Forbidden("staff only")), http.StatusForbidden, "staff only"},
		{errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		utils.WriteError(rec, tt.err)

		assert.Equal(t, tt.code, rec.Code)
		assert.Equal(t, tt.code, utils.StatusCode(tt.err))
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tt.message, body["error"])
	}
}
