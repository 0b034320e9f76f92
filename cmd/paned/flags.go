package main

// Flag names for Viper binding
const (
	FlagConfig  = "config"
	FlagVerbose = "verbose"

	// serve flags
	FlagRows       = "rows"
	FlagCols       = "cols"
	FlagLayout     = "layout"
	FlagDrawFrames = "draw-frames"

	// verb flags
	FlagPane   = "pane"
	FlagStep   = "step"
	FlagClient = "client"
	FlagFile   = "file"
)
