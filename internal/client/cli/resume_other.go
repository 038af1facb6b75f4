//go:build !unix

package cli

import "context"

func watchResume(context.Context, func(context.Context)) (stop func()) {
	return func() {}
}
