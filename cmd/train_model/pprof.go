package main

import (
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
)

// -pgo records a CPU profile into default.pgo until the process is interrupted.
func init() {
	for _, arg := range os.Args {
		if arg == "-pgo" || arg == "--pgo" {
			f, err := os.Create("default.pgo")
			if err != nil {
				return
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				return
			}
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigChan
				pprof.StopCPUProfile()
				f.Close()
				os.Exit(130)
			}()
			return
		}
	}
}
