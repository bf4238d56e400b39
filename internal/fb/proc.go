package fb

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

type deviceKind int

const (
	charDevice deviceKind = iota
	blockDevice
)

type procDevice struct {
	kind   deviceKind
	major  uint32
	driver string
}

// parseProcDevices parses the contents of /proc/devices.
func parseProcDevices(r io.Reader) ([]procDevice, error) {
	var devices []procDevice
	kind := charDevice

	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "Character devices:"):
			kind = charDevice
		case strings.HasPrefix(line, "Block devices:"):
			kind = blockDevice
		default:
			majorStr, driver, ok := strings.Cut(line, " ")
			if !ok {
				continue
			}
			major, err := strconv.ParseUint(majorStr, 10, 32)
			if err != nil {
				continue
			}
			devices = append(devices, procDevice{
				kind:   kind,
				major:  uint32(major),
				driver: strings.TrimSpace(driver),
			})
		}
	}
	return devices, s.Err()
}
