package gateway

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/imgworks/flux-kontext-api/internal/replicate"
)

var errNoOutput = errors.New("provider returned no output")

// predError turns a non-succeeded terminal prediction into an error carrying
// whatever detail the provider attached.
func predError(pred *replicate.Prediction) error {
	if pred.Error != nil && *pred.Error != "" {
		return fmt.Errorf("prediction %s: %s", pred.Status, *pred.Error)
	}
	return fmt.Errorf("prediction finished with status %s", pred.Status)
}

func newLogID() string {
	return uuid.NewString()
}
