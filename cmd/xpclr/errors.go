package main

import "errors"

var (
	errBothModes   = errors.New("-store and -map/-popA/-popB are mutually exclusive; provide one input mode")
	errNoMode      = errors.New("no input provided; provide either -store with -samplesA/-samplesB, or -map with -popA/-popB")
	errNoSamples   = errors.New("-store requires -samplesA and -samplesB")
	errPartialText = errors.New("text mode requires all of -map, -popA, and -popB")
)
