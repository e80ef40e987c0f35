package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"
	"github.com/gordonklaus/portaudio"

	"github.com/kaikogame/kaiko/analyzer"
	"github.com/kaikogame/kaiko/beatmap"
	"github.com/kaikogame/kaiko/detector"
	"github.com/kaikogame/kaiko/game"
	"github.com/kaikogame/kaiko/mixer"
	"github.com/kaikogame/kaiko/playfield"
	"github.com/kaikogame/kaiko/render"
)

var (
	flagPractice  = flag.Bool("practice", false, "space bar simulates a loud knock instead of reading the microphone")
	flagNoAudio   = flag.Bool("no-audio", false, "skip opening a PortAudio stream entirely (CI/headless)")
	flagBufferLen = flag.Int("buffer", 1024, "audio callback buffer length in frames")
)

const (
	escape     = "\x1b["
	hideCursor = escape + "?25l"
	showCursor = escape + "?25h"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("kaiko: ")
	flag.Parse()

	settings := game.DefaultSettings()
	if *flagPractice {
		// Clone rather than mutate the shared default: practice mode is
		// more forgiving since a spacebar tap can't reproduce a real
		// knock's timing precision.
		settings.Beatmap = settings.Beatmap.Clone()
		settings.Beatmap.PerformanceTolerance *= 2
	}
	layout := playfield.Layout{
		IconWidth:    settings.Playfield.IconWidth,
		HeaderWidth:  settings.Playfield.HeaderWidth,
		ContentWidth: settings.Playfield.ContentWidth,
		FooterWidth:  settings.Playfield.FooterWidth,
	}

	renderer := render.New(settings.Display.DisplayFramerate, settings.Display.DisplayDelay, layout.Width(), os.Stdout)
	pf := playfield.New(renderer, playfield.Config{
		Layout:           layout,
		SightAppearances: settings.Playfield.SightAppearances,
		HitDecayTime:     settings.Playfield.HitDecayTime,
		HitSustainTime:   settings.Playfield.HitSustainTime,
		SpecWidth:        settings.Playfield.SpecWidth,
		SpecFFTBins:      1024,
		SpecBinHz:        settings.Playfield.SpecFreqRes,
		SpecHopSeconds:   settings.Playfield.SpecTimeRes,
		SpecDecaySeconds: settings.Playfield.SpecDecayTime,
	})

	mx := mixer.New(settings.Audio.OutputSampleRate, settings.Audio.OutputChannels)
	// A short decaying tail on every knock, the way a real percussion hit
	// would ring against the room.
	mx.AddEffect(mixer.NewReverb(0.35, 90, settings.Audio.OutputSampleRate, settings.Audio.OutputChannels), 0, 0)
	field := beatmap.NewField(pf, mx)

	bm := demoBeatmap(layout, pf.State, settings.Beatmap)

	eventsCh := make(chan detector.Event, 256)
	g := game.New(bm, settings, field)
	g.Events = eventsCh

	det := detector.New(detector.Config{
		SampleRate:  settings.Audio.InputSampleRate,
		Channels:    settings.Audio.InputChannels,
		TimeRes:     settings.Detector.TimeRes,
		FreqRes:     settings.Detector.FreqRes,
		PreMax:      settings.Detector.PreMax,
		PostMax:     settings.Detector.PostMax,
		PreAvg:      settings.Detector.PreAvg,
		PostAvg:     settings.Detector.PostAvg,
		Wait:        settings.Detector.Wait,
		Delta:       settings.Detector.Delta,
		KnockDelay:  settings.Detector.KnockDelay,
		KnockEnergy: settings.Detector.KnockEnergy,
	})
	if err := det.Start(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() {
			g.Stop()
			cancel()
		})
	}

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT)
	go func() {
		<-sigch
		stop()
	}()

	// keyboard.Listen blocks on a terminal read that only a keypress (or
	// process exit) unblocks; it is not added to wg so a naturally-ending
	// game doesn't wait on it forever, matching cmd/modplay/play.go.
	keyboardDone := make(chan struct{})
	go func() {
		defer close(keyboardDone)
		keyboard.Listen(func(key keys.Key) (bool, error) {
			switch {
			case key.Code == keys.CtrlC || key.Code == keys.Escape:
				stop()
				return true, nil
			case *flagPractice && key.Code == keys.Space:
				select {
				case eventsCh <- detector.Event{T: mx.StreamTime(), Strength: 1.0, Detected: true}:
				default:
				}
			}
			return false, nil
		})
	}()

	if !*flagNoAudio {
		if err := portaudio.Initialize(); err != nil {
			log.Fatal(err)
		}
		defer portaudio.Terminate()

		scratchIn := make([]float32, *flagBufferLen*settings.Audio.InputChannels)
		callback := func(in, out []float32) {
			copy(scratchIn, in)
			if !*flagPractice {
				evs, err := det.Push(scratchIn)
				if err == nil {
					for _, ev := range evs {
						select {
						case eventsCh <- ev:
						default:
						}
					}
				}
			}
			buf, err := mx.Render(len(out) / settings.Audio.OutputChannels)
			if err == nil {
				copy(out, buf.Data)
			} else {
				clearF32(out)
			}
		}

		stream, err := portaudio.OpenDefaultStream(
			settings.Audio.InputChannels, settings.Audio.OutputChannels,
			settings.Audio.OutputSampleRate, *flagBufferLen, callback,
		)
		if err != nil {
			log.Fatal(err)
		}
		if err := stream.Start(); err != nil {
			log.Fatal(err)
		}
		defer stream.Stop()
		defer stream.Close()
	}

	fmt.Print(hideCursor)
	defer fmt.Print(showCursor)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := renderer.Run(ctx); err != nil && err != context.Canceled {
			log.Print(color.RedString("renderer: %v", err))
		}
	}()

	if err := g.Run(ctx, 0); err != nil && err != context.Canceled {
		log.Print(color.RedString("game: %v", err))
	}
	stop()
	wg.Wait()

	select {
	case <-keyboardDone:
	case <-time.After(500 * time.Millisecond):
	}

	stats := analyzer.New()
	stats.RecordBeatmap(bm)
	fmt.Fprint(os.Stdout, stats.Summary())
}

func clearF32(s []float32) {
	for i := range s {
		s[i] = 0
	}
}
