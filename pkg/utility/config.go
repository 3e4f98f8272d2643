package utility

import (
	"fmt"

	"github.com/levenlabs/go-lflag"
)

// Configured sets up the rate Provider based on flags.
func Configured() Provider {
	provider := lflag.String("rate-provider", "openei", "Where to fetch utility rate plans from (available: openei, file)")

	var p struct{ Provider }

	o := configuredOpenEI()
	f := configuredFile()

	lflag.Do(func() {
		switch *provider {
		case "openei":
			if err := o.Validate(); err != nil {
				panic(fmt.Sprintf("openei validation failed: %v", err))
			}
			p.Provider = o
		case "file":
			if err := f.Validate(); err != nil {
				panic(fmt.Sprintf("rate file validation failed: %v", err))
			}
			p.Provider = f
		default:
			panic(fmt.Sprintf("unknown rate provider: %s", *provider))
		}
	})

	return &p
}
