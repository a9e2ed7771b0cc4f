package handler

import (
	"net/http"
	"time"

	"github.com/ismailhaddouche/PiControl/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseTimeRange reads optional start/end query parameters. Accepts RFC 3339
// timestamps or bare dates; a bare end date is extended to the end of that day
// so ?start=2025-03-01&end=2025-03-31 covers the whole month.
func parseTimeRange(c *gin.Context) (start, end *time.Time, ok bool) {
	parse := func(raw string, endOfDay bool) (*time.Time, error) {
		if raw == "" {
			return nil, nil
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, err
		}
		if endOfDay {
			t = t.Add(24*time.Hour - time.Second)
		}
		t = t.UTC()
		return &t, nil
	}

	start, err := parse(c.Query("start"), false)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid start: use RFC 3339 or YYYY-MM-DD"))
		return nil, nil, false
	}
	end, err = parse(c.Query("end"), true)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid end: use RFC 3339 or YYYY-MM-DD"))
		return nil, nil, false
	}
	return start, end, true
}
