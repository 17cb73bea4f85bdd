package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/yok-tottii/MuteBar/internal/audio"
	"github.com/yok-tottii/MuteBar/internal/config"
	"github.com/yok-tottii/MuteBar/internal/hotkey"
	"github.com/yok-tottii/MuteBar/internal/i18n"
	"github.com/yok-tottii/MuteBar/internal/logger"
	"github.com/yok-tottii/MuteBar/internal/loop"
	"github.com/yok-tottii/MuteBar/internal/mute"
	"github.com/yok-tottii/MuteBar/internal/notification"
	"github.com/yok-tottii/MuteBar/internal/overlay"
	"github.com/yok-tottii/MuteBar/internal/permissions"
	"github.com/yok-tottii/MuteBar/internal/tray"
	"github.com/yok-tottii/MuteBar/internal/trigger"
)

const micCheckTimeout = 5 * time.Second

// App holds all application state
type App struct {
	logger     *logger.Logger
	configPath string

	mu     sync.Mutex
	config *config.Config

	translator  *i18n.Translator
	aggregator  *mute.Aggregator
	trayMgr     *tray.Manager
	overlay     *overlay.Overlay
	hotkeyMgr   *hotkey.Manager
	notifier    *notification.NotificationManager
	permChecker *permissions.PermissionChecker
	probe       *audio.Probe
	watcher     *config.Watcher

	cancel      context.CancelFunc
	loopDone    chan struct{}
	loopErr     error
	micChecking atomic.Bool
}

func newApp(cfg *config.Config, configPath string, log *logger.Logger) *App {
	return &App{
		logger:      log,
		configPath:  configPath,
		config:      cfg,
		notifier:    notification.NewNotificationManager("MuteBar"),
		permChecker: permissions.NewPermissionChecker(),
		probe:       audio.NewProbe(audio.NewPortAudioRecorder(audio.DefaultConfig()), audio.DefaultDuration),
		loopDone:    make(chan struct{}),
	}
}

// Run starts the menu-bar app and blocks until it quits. The returned error
// is the coordination loop's result.
func (a *App) Run() error {
	a.logger.Info("MuteBar %s 起動", version)

	var err error
	a.translator, err = i18n.New(i18n.Language(a.config.UILanguage))
	if err != nil {
		return err
	}

	a.aggregator, err = mute.New(newDriver(), a.logger)
	if err != nil {
		a.logger.Error("入力デバイスの列挙に失敗: %v", err)
		return err
	}

	// システムトレイマネージャーの作成
	a.trayMgr = tray.NewManager(tray.Config{
		Labels:     a.translator,
		Muted:      a.aggregator.Muted(),
		OnReady:    a.onReady,
		OnMicCheck: a.handleMicCheck,
		OnExit:     a.onExit,
	})
	a.overlay = overlay.New(overlay.RobotLocator{}, a.trayMgr, a.translator, overlay.DefaultSize, a.logger)

	a.logger.Info("systray初期化開始")

	// systray.Run()を呼び出し - これはブロッキング呼び出し
	a.trayMgr.Run()

	a.logger.Info("MuteBar 終了 (muted=%v)", a.aggregator.Muted())
	return a.loopErr
}

// onReady は systray が初期化完了後に呼ばれる
func (a *App) onReady() {
	a.logger.Info("systray初期化完了 - アプリケーション初期化開始")

	a.mu.Lock()
	cfg := a.config
	a.mu.Unlock()

	a.trayMgr.SetDevices(describeDevices(a.aggregator.Devices()))
	a.trayMgr.SetMuted(a.aggregator.Muted())

	// ホットキーの登録
	a.hotkeyMgr = hotkey.New()
	a.registerHotkeys(cfg)

	pollTicker := time.NewTicker(cfg.PollInterval())

	ui := &statusUI{indicator: a.trayMgr, overlay: a.overlay}
	coord := loop.New(a.aggregator, ui, loop.Sources{
		Menu:     a.trayMgr.Events(),
		Shortcut: a.hotkeyMgr.Events(),
		Poll:     pollTicker.C,
	}, loop.Config{
		TickInterval:   cfg.TickInterval(),
		ThrottleWindow: cfg.ThrottleWindow(),
		HideDelay:      cfg.HideDelay(),
		EnforceMute:    cfg.EnforceMute,
		OnError:        a.handleLoopError,
	}, a.logger)

	// 設定ファイルの監視
	watcher, err := config.NewWatcher(a.configPath, a.applyConfig, a.handleConfigError)
	if err != nil {
		a.logger.Warn("設定ファイルの監視を開始できません: %v", err)
	} else if err := watcher.Start(); err != nil {
		a.logger.Warn("設定ファイルの監視を開始できません: %v", err)
		if err := watcher.Stop(); err != nil {
			a.logger.Warn("設定ファイル監視の停止に失敗: %v", err)
		}
	} else {
		a.watcher = watcher
	}

	// シグナルハンドリングを設定（Ctrl+Cでもミュートしてから終了する）
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	go func() {
		select {
		case sig := <-sigChan:
			a.logger.Info("終了シグナルを受信しました: %v", sig)
			if !a.trayMgr.RequestQuit() {
				cancel()
			}
		case <-ctx.Done():
		}
	}()

	go func() {
		err := coord.Run(ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		a.loopErr = err
		a.reportQuitFailure(err)

		signal.Stop(sigChan)
		pollTicker.Stop()
		if a.watcher != nil {
			if err := a.watcher.Stop(); err != nil {
				a.logger.Warn("設定ファイル監視の停止に失敗: %v", err)
			}
		}
		if err := a.hotkeyMgr.Close(); err != nil {
			a.logger.Warn("ホットキーの解除に失敗: %v", err)
		}
		cancel()
		close(a.loopDone)

		a.trayMgr.Quit()
	}()

	a.logger.Info("アプリケーション初期化完了")
}

// onExit waits for the loop so devices are muted before the process ends
func (a *App) onExit() {
	if a.cancel == nil {
		return
	}
	a.cancel()
	<-a.loopDone
}

// registerHotkeys (re)binds the toggle and optional quit shortcuts
func (a *App) registerHotkeys(cfg *config.Config) {
	var bindings []hotkey.Binding

	toggle, err := hotkey.FromConfig(cfg.Hotkey, trigger.ToggleRequested)
	if err != nil {
		a.reportHotkeyError(err)
		return
	}
	bindings = append(bindings, toggle)

	if cfg.QuitHotkey.Enabled() {
		quit, err := hotkey.FromConfig(cfg.QuitHotkey, trigger.QuitRequested)
		if err != nil {
			a.reportHotkeyError(err)
			return
		}
		bindings = append(bindings, quit)
	}

	for _, b := range bindings {
		for _, conflict := range hotkey.CheckConflicts(b) {
			a.logger.Warn("ホットキー %s は %s と競合する可能性があります", b, conflict.Name)
			a.notify(a.notifier.Warning, a.translator.TranslateWithFormat("notification.hotkey_conflict", map[string]string{
				"hotkey": b.String(),
				"name":   conflict.Name,
			}))
		}
	}

	if err := a.hotkeyMgr.Register(bindings...); err != nil {
		a.reportHotkeyError(err)
		return
	}

	for _, b := range bindings {
		a.logger.Info("ホットキー登録完了: %s -> %v", b, b.Kind)
	}
}

func (a *App) reportHotkeyError(err error) {
	a.logger.Error("ホットキーの登録に失敗: %v", err)
	a.notify(a.notifier.Error, a.translator.TranslateWithFormat("error.hotkey_failed", map[string]string{
		"error": err.Error(),
	}))
}

// applyConfig is called by the watcher with a validated config
func (a *App) applyConfig(next *config.Config) {
	a.mu.Lock()
	prev := a.config
	a.config = next
	a.mu.Unlock()

	a.logger.Info("設定ファイルが変更されました")

	if level, err := logger.ParseLevel(next.LogLevel); err == nil && globalOpts.logLevel == "" {
		a.logger.SetLevel(level)
	}

	if next.UILanguage != prev.UILanguage {
		a.translator.SetLanguage(i18n.Language(next.UILanguage))
		a.trayMgr.Refresh()
		a.logger.Info("UI言語を変更: %s", next.UILanguage)
	}

	if next.Hotkey != prev.Hotkey || next.QuitHotkey != prev.QuitHotkey {
		a.registerHotkeys(next)
	}

	if next.ThrottleWindowMS != prev.ThrottleWindowMS || next.HideDelayMS != prev.HideDelayMS ||
		next.TickIntervalMS != prev.TickIntervalMS || next.PollIntervalMS != prev.PollIntervalMS ||
		next.EnforceMute != prev.EnforceMute {
		a.logger.Info("タイミング設定の変更は再起動後に反映されます")
	}

	a.notify(a.notifier.Info, a.translator.Translate("notification.config_reloaded"))
}

func (a *App) handleConfigError(err error) {
	a.logger.Warn("設定ファイルの再読み込みに失敗: %v", err)
	a.notify(a.notifier.Error, a.translator.TranslateWithFormat("error.config_reload_failed", map[string]string{
		"error": err.Error(),
	}))
}

// handleLoopError alerts the user when no device accepted a mute change
func (a *App) handleLoopError(err error) {
	a.notify(a.notifier.Error, a.translator.TranslateWithFormat("error.toggle_failed", map[string]string{
		"error": err.Error(),
	}))
}

// handleMicCheck records briefly from the default input and reports the level
func (a *App) handleMicCheck() {
	if !a.micChecking.CompareAndSwap(false, true) {
		return
	}
	defer a.micChecking.Store(false)

	if err := a.permChecker.RequireMicrophone(); err != nil {
		a.logger.Warn("マイク権限: 未許可")
		a.notify(a.notifier.Error, a.translator.Translate("error.mic_permission_denied"))
		if err := a.permChecker.RequestMicrophonePermission(); err != nil {
			a.logger.Warn("システム設定を開けませんでした: %v", err)
		}
		return
	}

	a.notify(a.notifier.Info, a.translator.Translate("notification.mic_check_started"))

	ctx, cancel := context.WithTimeout(context.Background(), micCheckTimeout)
	defer cancel()

	level, err := a.probe.Check(ctx)
	if err != nil {
		a.logger.Error("マイクチェックに失敗: %v", err)
		a.notify(a.notifier.Error, a.translator.TranslateWithFormat("error.mic_check_failed", map[string]string{
			"error": err.Error(),
		}))
		return
	}

	a.logger.Info("マイクチェック: device=%q peak=%.4f rms=%.4f muted=%v",
		level.Device, level.Peak, level.RMS, a.aggregator.Muted())

	if level.Silent() {
		a.notify(a.notifier.Info, a.translator.Translate("notification.mic_check_silent"))
		return
	}
	a.notify(a.notifier.Info, a.translator.TranslateWithFormat("notification.mic_check_result", map[string]string{
		"level": fmt.Sprintf("%d%% (%.1f dBFS)", level.Percent(), level.DBFS()),
	}))
}

// reportQuitFailure alerts synchronously when the loop ended with devices
// still live, so the notification is posted before the process exits
func (a *App) reportQuitFailure(err error) {
	var aggErr *mute.AggregateError
	if !errors.As(err, &aggErr) {
		return
	}
	a.logger.Error("終了時にミュートできませんでした: %v", err)
	msg := a.translator.TranslateWithFormat("error.quit_unmuted", map[string]string{
		"error": err.Error(),
	})
	if err := a.notifier.Error(msg); err != nil {
		a.logger.Warn("通知の送信に失敗: %v", err)
	}
}

// notify posts without blocking the caller; failures are only logged
func (a *App) notify(send func(string) error, message string) {
	go func() {
		if err := send(message); err != nil {
			a.logger.Debug("通知の送信に失敗: %v", err)
		}
	}()
}
