// Command handtrackd is the demo harness: it drives a HandTracker with a
// synthetic depth-frame source, persists settings profiles and session
// summaries to SQLite, broadcasts emitted hand frames over WebSocket, and
// exposes a system tray control panel — the same shape as the teacher's
// server-plus-store binary, aimed at the hand-tracking core instead.
package main

import (
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kestrelcam/handtrace/handmodel"
	"github.com/kestrelcam/handtrace/handtracker"
	"github.com/kestrelcam/handtrace/internal/opstray"
	"github.com/kestrelcam/handtrace/internal/sessionstore"
	"github.com/kestrelcam/handtrace/internal/settingsstore"
	"github.com/kestrelcam/handtrace/internal/streamhub"
	"github.com/kestrelcam/handtrace/internal/synthdepth"
)

const (
	fullWidth  = 320
	fullHeight = 240
	demoAddr   = ":8080"
)

func main() {
	fmt.Println("handtrackd - hand tracking service")

	dataDir, err := dataDirectory()
	if err != nil {
		log.Fatalf("failed to resolve data directory: %v", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}

	settingsDB, err := settingsstore.New(filepath.Join(dataDir, "settings.db"))
	if err != nil {
		log.Fatalf("failed to open settings store: %v", err)
	}
	defer settingsDB.Close()

	sessionDB, err := sessionstore.New(filepath.Join(dataDir, "sessions.db"))
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer sessionDB.Close()

	if err := ensureDefaultProfile(settingsDB); err != nil {
		log.Fatalf("failed to seed default settings profile: %v", err)
	}

	settings, err := settingsDB.Load("default")
	if err != nil {
		log.Fatalf("failed to load default settings profile: %v", err)
	}

	tracker, err := handtracker.New(settings, fullWidth, fullHeight, log.Default())
	if err != nil {
		log.Fatalf("failed to construct hand tracker: %v", err)
	}
	defer tracker.Close()

	hub := streamhub.New(0)
	defer hub.Close()

	session, err := sessionDB.Begin(tracker.SessionID(), "default")
	if err != nil {
		log.Fatalf("failed to begin session: %v", err)
	}
	fmt.Printf("session %s started with profile %q\n", session.ID, session.SettingsName)

	profiles, err := settingsDB.List()
	if err != nil {
		log.Fatalf("failed to list settings profiles: %v", err)
	}

	stopDemo := make(chan struct{})
	tray := opstray.New(profiles)
	tray.OnToggleTracking(func(enabled bool) {
		tracker.SetHandConsumers(enabled)
	})
	tray.OnOpenDashboard(func() {
		fmt.Printf("dashboard: connect a WebSocket client to http://localhost%s/ws\n", demoAddr)
	})
	tray.OnSelectProfile(func(name string) {
		swapped, err := settingsDB.Load(name)
		if err != nil {
			log.Printf("failed to load profile %q: %v", name, err)
			return
		}
		if err := swapped.Validate(); err != nil {
			log.Printf("profile %q failed validation: %v", name, err)
			return
		}
		log.Printf("profile %q selected; restart handtrackd to apply it", name)
	})
	tray.OnQuit(func() {
		close(stopDemo)
	})

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	server := &http.Server{Addr: demoAddr, Handler: mux}

	go func() {
		fmt.Printf("streaming hand frames on ws://localhost%s/ws\n", demoAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("stream server error: %v", err)
		}
	}()

	go runDemoSource(tracker, hub, sessionDB, session.ID, stopDemo)

	tray.Run()

	if err := server.Close(); err != nil {
		log.Printf("stream server close error: %v", err)
	}
	if err := sessionDB.End(session.ID); err != nil {
		log.Printf("failed to close session cleanly: %v", err)
	}
}

// dataDirectory returns ~/.handtrackd, matching the home-directory
// data-file convention every store in this program follows.
func dataDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".handtrackd"), nil
}

// ensureDefaultProfile seeds a "default" settings profile the first time
// handtrackd runs against a fresh data directory.
func ensureDefaultProfile(store *settingsstore.Store) error {
	if _, err := store.Load("default"); err == nil {
		return nil
	} else if err != settingsstore.ErrNotFound {
		return err
	}
	return store.Save("default", handmodel.DefaultHandSettings())
}

// runDemoSource feeds the tracker a synthetic scene of two hands orbiting
// a shared center, standing in for a real depth camera when no capture
// backend is wired in. It publishes every emitted frame to hub and records
// per-frame session counters.
func runDemoSource(tracker *handtracker.HandTracker, hub *streamhub.Hub, sessions *sessionstore.Store, sessionID string, stop <-chan struct{}) {
	projection := synthdepth.StandardProjection(fullWidth, fullHeight)
	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

	var frameIndex uint64
	prevHandIDs := make(map[int32]bool)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			frameIndex++
			scene := demoScene(frameIndex)

			frame, err := tracker.OnFrame(scene, projection)
			if err != nil {
				log.Printf("frame %d: %v", frameIndex, err)
				continue
			}

			newHands := int64(0)
			seen := make(map[int32]bool, frame.HandCount)
			for i := 0; i < frame.HandCount; i++ {
				id := frame.Hands[i].TrackingID
				seen[id] = true
				if !prevHandIDs[id] {
					newHands++
				}
			}
			prevHandIDs = seen

			if err := sessions.RecordFrame(sessionID, newHands); err != nil {
				log.Printf("frame %d: failed to record session frame: %v", frameIndex, err)
			}

			hub.Publish(frame)
		}
	}
}

// demoScene produces one synthetic frame: a hand-sized disk sweeping in a
// slow circle against a far background, occasionally joined by a second
// disk to exercise multi-hand tracking.
func demoScene(frameIndex uint64) *handmodel.DepthFrame {
	const (
		backgroundDepth = 3000
		orbitRadius     = 60.0
		periodFrames    = 240.0
	)

	angle := 2 * math.Pi * float64(uint64(frameIndex)%uint64(periodFrames)) / periodFrames
	cx := fullWidth/2 + int(orbitRadius*math.Cos(angle))
	cy := fullHeight/2 + int(orbitRadius*math.Sin(angle))

	disks := []synthdepth.Disk{
		{CenterX: cx, CenterY: cy, RadiusPixels: 25, DepthMM: 700},
	}
	if float64(frameIndex%uint64(periodFrames)) > periodFrames/2 {
		disks = append(disks, synthdepth.Disk{
			CenterX:      fullWidth/2 - int(orbitRadius*math.Cos(angle)),
			CenterY:      fullHeight/2 - int(orbitRadius*math.Sin(angle)),
			RadiusPixels: 22,
			DepthMM:      750,
		})
	}

	return synthdepth.DiskScene(fullWidth, fullHeight, backgroundDepth, frameIndex, disks...)
}
