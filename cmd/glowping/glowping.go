// Command glowping asks a server for its status and prints it, including
// the server icon when the terminal can show it.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/nfnt/resize"

	"badc0de.net/pkg/go-glowstone/client"
	"badc0de.net/pkg/go-glowstone/icon"
	"badc0de.net/pkg/go-glowstone/imageprint"
	"badc0de.net/pkg/go-glowstone/message"
)

var (
	serverAddr = flag.String("server", "localhost:25565", "address of the server to ping")
	timeout    = flag.Duration("timeout", 5*time.Second, "how long to wait for the server")
	iconMode   = flag.String("icon_mode", "truecolor", "how to draw the server icon: truecolor, 256, ascii, graphics or none")
	iconFile   = flag.String("icon", "", "instead of pinging, encode this image as a server icon, preview it and print its data URL")
)

func main() {
	flagutil.Parse()

	var err error
	if *iconFile != "" {
		err = previewFile(os.Stdout, *iconFile)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		defer cancel()
		err = ping(ctx, os.Stdout, *serverAddr)
	}
	if err != nil {
		glog.Exit(err)
	}
}

func ping(ctx context.Context, w io.Writer, addr string) error {
	status, rtt, err := client.Ping(ctx, addr)
	if err != nil {
		return err
	}
	printStatus(w, status, rtt)
	if status.Favicon == "" || *iconMode == "none" {
		return nil
	}
	img, err := icon.Decode(status.Favicon)
	if err != nil {
		return err
	}
	return draw(w, img)
}

func printStatus(w io.Writer, status message.Status, rtt time.Duration) {
	fmt.Fprintf(w, "%s\n", status.Description.Text)
	fmt.Fprintf(w, "version:  %s (protocol %d)\n", status.Version.Name, status.Version.Protocol)
	fmt.Fprintf(w, "players:  %d/%d\n", status.Players.Online, status.Players.Max)
	fmt.Fprintf(w, "latency:  %v\n", rtt.Round(time.Microsecond))
}

func previewFile(w io.Writer, path string) error {
	u, err := icon.Load(path)
	if err != nil {
		return err
	}
	if *iconMode != "none" {
		img, err := icon.Decode(u)
		if err != nil {
			return err
		}
		if err := draw(w, img); err != nil {
			return err
		}
	}
	fmt.Fprintln(w, u)
	return nil
}

func draw(w io.Writer, img image.Image) error {
	mode, err := imageprint.ParseMode(*iconMode)
	if err != nil {
		return err
	}
	if mode != imageprint.Graphics {
		img = fitTerminal(img)
	}
	return imageprint.Print(w, img, mode)
}

// fitTerminal shrinks img so that two columns per pixel fit the terminal.
func fitTerminal(img image.Image) image.Image {
	sz, err := getTermSize()
	if err != nil || sz.WSCol == 0 {
		glog.V(2).Infof("not fitting icon to terminal: %v", err)
		return img
	}
	maxWidth := sz.WSCol / 2
	if uint(img.Bounds().Dx()) <= maxWidth {
		return img
	}
	return resize.Resize(maxWidth, 0, img, resize.Bilinear)
}
