//go:build !linux
// +build !linux

package main

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// MediaSession is only backed by MPRIS on Linux.
type MediaSession struct{}

func NewMediaSession() (*MediaSession, error) {
	return nil, errors.New("media session: MPRIS requires linux")
}

func (s *MediaSession) Attach(func(tea.Msg)) {}

func (s *MediaSession) PublishStatus(AudioStatus) {}

func (s *MediaSession) Close() error { return nil }
