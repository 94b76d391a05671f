// ABOUTME: Local file playback core
// ABOUTME: Player state machine and the transport that serializes commands against it
// Package player plays audio files through an output.Output.
//
// Player holds the single active decode session and sink. It is not safe
// for concurrent use; Transport wraps it with an explicit lock and watches
// the sink so natural end of stream returns the player to Idle.
//
// Example:
//
//	out, _ := output.Open("oto")
//	t := player.NewTransport(player.New(out), &sync.Mutex{})
//	if err := t.Play("song.flac", 1.0); err != nil {
//		return err
//	}
//	t.Wait(ctx)
package player
