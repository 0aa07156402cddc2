package prog

import (
	"fmt"
	"os"
	"runtime/pprof"
)

// Starts the profiles requested by the flags. Failing to create a profile is
// not fatal. The returned function finishes the profiles.
func (p *program) startProfiles() func() {
	var cleanups []func()
	if name := p.flags.CPUProfile; name != "" {
		f, err := os.Create(name)
		if err != nil {
			fmt.Fprintln(p.fds[2], "Warning: cannot create CPU profile:", err)
			fmt.Fprintln(p.fds[2], "Continuing without CPU profiling.")
		} else if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintln(p.fds[2], "Warning: cannot start CPU profile:", err)
			f.Close()
		} else {
			cleanups = append(cleanups, func() {
				pprof.StopCPUProfile()
				f.Close()
			})
		}
	}
	if name := p.flags.AllocsProfile; name != "" {
		f, err := os.Create(name)
		if err != nil {
			fmt.Fprintln(p.fds[2], "Warning: cannot create memory allocation profile:", err)
			fmt.Fprintln(p.fds[2], "Continuing without memory allocation profiling.")
		} else {
			cleanups = append(cleanups, func() {
				pprof.Lookup("allocs").WriteTo(f, 0)
				f.Close()
			})
		}
	}
	return func() {
		for _, cleanup := range cleanups {
			cleanup()
		}
	}
}
