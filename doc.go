// Package sharpmem controls a Sharp 3-bit color memory LCD via SPI.
//
// The 8-color memory-in-pixel LCDs (LS013B7DH06 and compatible panels) keep
// their image without refresh and are written one addressed line at a time.
// This driver implements the display.Drawer interface from periph.io.
//
// # Display Characteristics
//
// - 3-bit RGB color, 8 colors (see image3bit)
// - Line addressed writes, no read back
// - Hardware "all clear" command
// - VCOM inversion required on every transfer, at least once per second
// - Chip select is active high
//
// # Hardware Connection
//
// Connect the memory LCD to your system via SPI:
//
//	Display Pin → System Pin
//	GND         → GND
//	VIN         → 3.3V-5V
//	SCLK        → SPI Clock (SCLK)
//	MOSI        → SPI Data (MOSI)
//	CS          → GPIO (any available pin, active high)
//	DISP        → Optional: GPIO for display on/off
//	EXTMODE     → GND (VCOM inversion over serial)
//	EXTCOMIN    → GND
//
// # Basic Usage
//
// Example of creating and using the display:
//
//	package main
//
//	import (
//		"image"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/devices/v3/sharpmem"
//		"periph.io/x/devices/v3/sharpmem/image3bit"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		// Open SPI bus
//		spiBus, _ := spireg.Open("")
//
//		// Get chip select GPIO pin
//		csPin := gpioreg.ByName("GPIO8")
//
//		// Create device
//		dev, _ := sharpmem.NewSPI(spiBus, csPin, &sharpmem.Opts{
//			W: 128,
//			H: 128,
//		})
//		defer dev.Halt()
//
//		// Draw color bars
//		for y := 0; y < 128; y++ {
//			for x := 0; x < 128; x++ {
//				dev.SetPixel(x, y, image3bit.Color(x/16))
//			}
//		}
//
//		// Send the buffer to the panel
//		dev.Refresh()
//	}
//
// # Buffer and Refresh
//
// Pixel writes (SetPixel, Set, or any library drawing into the Dev as a
// draw.Image) only touch the in-memory buffer. Refresh streams the whole
// buffer to the panel; Draw and Write do both in one call. Writes outside
// Bounds are silently dropped.
//
// ClearBuffer resets the buffer to White without bus traffic. ClearDisplay
// resets the buffer and blanks the panel with the hardware clear command.
//
// # VCOM
//
// The panel alternates its common electrode polarity on every transfer to
// avoid DC bias. The driver toggles the VCOM bit on each Refresh,
// ClearDisplay and Hold. When the image does not change, call Hold
// periodically (1-60Hz):
//
//	t := time.NewTicker(500 * time.Millisecond)
//	for range t.C {
//		dev.Hold()
//	}
//
// # Rotation
//
// Opts.Rotation, or SetRotation, rotates the coordinate system in 90° steps.
// Bounds reports the rotated size. The buffer itself always stays in panel
// orientation, so changing rotation does not move what was already drawn.
//
// # Colors
//
// The display supports 8 colors. Use the image3bit.Color type:
//
//	dev.SetPixel(0, 0, image3bit.Red)
//	dev.SetPixel(1, 0, image3bit.Cyan)
//
// Standard Go colors are reduced to 3 bits by thresholding each channel.
//
// # Datasheet
//
// For the serial interface timing and command format, see the LS013B7DH06
// application note:
// https://www.sharpsde.com/fileadmin/products/Displays/2016_SDE_App_Note_for_Memory_LCD_programming_V1.3.pdf
//
// # Compatibility with periph.io
//
// This driver implements the display.Drawer interface from periph.io:
// https://pkg.go.dev/periph.io/x/conn/v3/display
//
// It also implements draw.Image, so text and shape libraries such as
// golang.org/x/image/font can render straight into the buffer.
package sharpmem
