//go:build ignore

package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	binaryName = "movie-booking"
	debounce   = 400 * time.Millisecond
)

type runner struct {
	mu  sync.Mutex
	cmd *exec.Cmd
}

func main() {
	fmt.Println("🔥 Movie Booking hot reload")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal(err)
	}
	defer watcher.Close()

	for _, dir := range watchDirs(".") {
		if err := watcher.Add(dir); err != nil {
			log.Printf("Error watching %s: %v", dir, err)
			continue
		}
		fmt.Printf("👀 Watching: %s\n", dir)
	}

	r := &runner{}
	r.rebuild()

	var timer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".go") || strings.HasSuffix(event.Name, "_test.go") {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}

			fmt.Printf("🔄 Changed: %s\n", event.Name)
			// editors emit bursts of events per save
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, r.rebuild)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Println("Watcher error:", err)
		}
	}
}

// watchDirs returns root and every package directory below it, skipping
// hidden directories, posters and the reference material.
func watchDirs(root string) []string {
	var dirs []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "posters" || name == "logs") {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs
}

func (r *runner) rebuild() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()

	fmt.Println("🔨 Building...")
	build := exec.Command("go", "build", "-o", binaryName, ".")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		fmt.Printf("❌ Build failed: %v\n", err)
		return
	}

	fmt.Println("🚀 Starting " + binaryName)
	fmt.Println(strings.Repeat("=", 50))

	cmd := exec.Command("./" + binaryName)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		fmt.Printf("❌ Failed to start: %v\n", err)
		return
	}
	r.cmd = cmd
	go func() { _ = cmd.Wait() }()
}

// stopLocked asks the server to shut down gracefully and kills it if it is
// still running after a few seconds.
func (r *runner) stopLocked() {
	if r.cmd == nil || r.cmd.Process == nil {
		return
	}
	proc := r.cmd.Process
	r.cmd = nil

	_ = proc.Signal(syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		_, _ = proc.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		_ = proc.Kill()
	}
}
