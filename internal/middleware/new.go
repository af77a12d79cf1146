package middleware

import (
	pkgLog "aibi-gateway/pkg/log"
)

type Middleware struct {
	l pkgLog.Logger
}

func New(l pkgLog.Logger) Middleware {
	return Middleware{
		l: l,
	}
}
