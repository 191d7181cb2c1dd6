package gpu

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Info holds the detected compute device for the recognition engine
type Info struct {
	Device string `json:"device"` // "cuda" or "cpu"
	Vendor string `json:"vendor"` // PCI vendor id of the GPU, if any
}

var (
	cached     *Info
	detectOnce sync.Once
)

const nvidiaVendorID = "0x10de"

// Detect probes sysfs for an NVIDIA GPU and returns the device the ASR
// engine should run on. Uses sync.Once — safe to call multiple times.
func Detect() *Info {
	detectOnce.Do(func() {
		cached = detect()
		log.Printf("[gpu] compute device: %s (vendor=%s)", cached.Device, cached.Vendor)
	})
	return cached
}

// DeviceHint resolves a configured device value: "auto" defers to detection,
// anything else is passed through as-is.
func DeviceHint(configured string) string {
	if configured != "" && configured != "auto" {
		return configured
	}
	return Detect().Device
}

func detect() *Info {
	info := &Info{Device: "cpu"}

	// The NVIDIA driver exposes /proc/driver/nvidia when loaded.
	if _, err := os.Stat("/proc/driver/nvidia"); err == nil {
		info.Device = "cuda"
		info.Vendor = nvidiaVendorID
		return info
	}

	// Fall back to scanning PCI vendor ids under /sys/class/drm.
	cards, err := filepath.Glob("/sys/class/drm/card[0-9]*/device/vendor")
	if err != nil {
		return info
	}
	for _, vendorPath := range cards {
		data, err := os.ReadFile(vendorPath)
		if err != nil {
			continue
		}
		vendor := strings.TrimSpace(string(data))
		info.Vendor = vendor
		if vendor == nvidiaVendorID {
			info.Device = "cuda"
			break
		}
	}
	return info
}
