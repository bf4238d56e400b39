package fb

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// List returns the paths of device nodes in /dev handled by the "fb"
// driver. The driver's major number comes from /proc/devices.
func List() ([]string, error) {
	f, err := os.Open("/proc/devices")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	devices, err := parseProcDevices(f)
	if err != nil {
		return nil, err
	}

	var major uint32
	found := false
	for _, d := range devices {
		if d.kind == charDevice && d.driver == "fb" {
			major = d.major
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}

	entries, err := os.ReadDir("/dev")
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		path := filepath.Join("/dev", entry.Name())
		var stat unix.Stat_t
		if err := unix.Stat(path, &stat); err != nil {
			continue
		}
		if stat.Mode&unix.S_IFMT == unix.S_IFCHR && unix.Major(uint64(stat.Rdev)) == major {
			paths = append(paths, path)
		}
	}
	return paths, nil
}
