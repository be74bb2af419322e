// Package main is the entry point of the PlayVideo jukebox.
//
// PlayVideo plays a list of videos on a headless player and moves through
// the list with two buttons (forward and reverse).
//
// Build:
//
//	go build -o build/playvideo ./cmd
//
// Run:
//
//	DVDLISTFILE=/media/pi/VIDEOS/list.txt DVDPLAYER=omxplayer \
//	DVDPLAYEROPTIONS="--adev both --no-osd" REBOOTATTEMPTS=2 ./build/playvideo
package main

import "os"

func main() {
	os.Exit(execute())
}
