// Talking Clock: a speaking alarm clock for the terminal.
//
// Usage:
//
//	talkingclock [--config talkingclock.yaml] [--log-level debug] [--no-sound]
//	talkingclock announce [H:MM]
//	talkingclock alarm
//	talkingclock sequence "text" [--simulate]
package main

import "github.com/hammamikhairi/talkingclock/cmd/talkingclock/cmd"

func main() {
	cmd.Execute()
}
