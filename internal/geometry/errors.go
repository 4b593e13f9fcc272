package geometry

import (
	"fmt"

	"github.com/ashgrove/blindwm/internal/wmerr"
)

func errImageTooSmall(subbandH, subbandW, blockH, blockW int) error {
	return fmt.Errorf("%w: %dx%d subband cannot fit a single %dx%d block",
		wmerr.ErrImageTooSmall, subbandH, subbandW, blockH, blockW)
}
