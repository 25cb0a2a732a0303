package log

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetLoggerRedirectsOutput(t *testing.T) {
	var buf bytes.Buffer
	custom := logrus.New()
	custom.Out = &buf
	custom.SetFormatter(&logrus.JSONFormatter{})

	SetLogger(custom)
	defer SetLogger(logrus.New())

	WithField("component", "test").Info("hello")

	if buf.Len() == 0 {
		t.Fatal("expected SetLogger to redirect output to the custom logger")
	}
}

func TestLReturnsCurrentLogger(t *testing.T) {
	custom := logrus.New()
	SetLogger(custom)
	defer SetLogger(logrus.New())

	if L() != custom {
		t.Error("expected L() to return the logger set via SetLogger")
	}
}
