package main

import (
	"runtime"
)

func init() {
	// macOSのCGO呼び出し（systray）にはメインスレッドが必要
	runtime.LockOSThread()
}

func main() {
	Execute()
}
