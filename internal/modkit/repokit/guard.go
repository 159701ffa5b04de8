package repokit

import (
	"context"
	"fmt"
)

// MustGuard panics when any configured backend fails its startup ping
func MustGuard(ctx context.Context, st interface{ Guard(context.Context) error }) {
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
