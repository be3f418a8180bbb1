package models

import (
	"fmt"
	"time"
)

// PlaybackStatus is the coarse state of the player.
type PlaybackStatus int

const (
	PlaybackStopped PlaybackStatus = iota
	PlaybackLoading
	PlaybackPaused
	PlaybackPlaying
)

func (s PlaybackStatus) String() string {
	switch s {
	case PlaybackStopped:
		return "stopped"
	case PlaybackLoading:
		return "loading"
	case PlaybackPaused:
		return "paused"
	case PlaybackPlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// PlaybackState tracks the current song and position. Audio decoding lives elsewhere; this only
// models the transitions a player surface drives.
type PlaybackState struct {
	Song     *Song
	Status   PlaybackStatus
	Position time.Duration
	Duration time.Duration
}

// Load selects song and waits for [PlaybackState.Loaded]. A song without a URI cannot be played.
func (p *PlaybackState) Load(song *Song) error {
	if song == nil || song.URI == "" {
		return fmt.Errorf("song has no playable uri")
	}
	*p = PlaybackState{Song: song, Status: PlaybackLoading}
	return nil
}

// Loaded records the decoded duration and leaves the player paused at the start.
func (p *PlaybackState) Loaded(duration time.Duration) {
	if p.Status != PlaybackLoading {
		return
	}
	p.Duration = duration
	p.Status = PlaybackPaused
}

// Toggle switches between playing and paused. It is a no-op while stopped or loading.
func (p *PlaybackState) Toggle() {
	switch p.Status {
	case PlaybackPaused:
		p.Status = PlaybackPlaying
	case PlaybackPlaying:
		p.Status = PlaybackPaused
	}
}

// Seek moves the position, clamped to [0, Duration].
func (p *PlaybackState) Seek(pos time.Duration) {
	if p.Status == PlaybackStopped || p.Status == PlaybackLoading {
		return
	}
	p.Position = max(0, min(pos, p.Duration))
}

// Finish is called when the track ends; the song stays selected.
func (p *PlaybackState) Finish() {
	p.Status = PlaybackStopped
	p.Position = 0
}

// String renders a one-line "now playing" summary.
func (p PlaybackState) String() string {
	if p.Song == nil {
		return "nothing playing"
	}
	return fmt.Sprintf("%s %s [%s/%s]", p.Status, p.Song.DisplayLabel(), formatClock(p.Position), formatClock(p.Duration))
}

func formatClock(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
