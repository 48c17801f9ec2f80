package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/hirestack/ats/internal/domain/pipeline"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", pipeline.ErrValidation, http.StatusBadRequest},
		{"not found", pipeline.ErrNotFound, http.StatusNotFound},
		{"conflict", pipeline.ErrConflict, http.StatusConflict},
		{"invalid transition", pipeline.ErrInvalidTransition, http.StatusConflict},
		{"terminal state", pipeline.ErrTerminalState, http.StatusConflict},
		{"precondition", pipeline.ErrPrecondition, http.StatusUnprocessableEntity},
		{"wrapped", fmt.Errorf("%w: stage OFFER is not enabled", pipeline.ErrInvalidTransition), http.StatusConflict},
		{"unknown", fmt.Errorf("database is locked"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
