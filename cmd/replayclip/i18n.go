// Package main provides localization for the replayclip CLI.
package main

import (
	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag groups
		"Buffer":  "バッファ",
		"Capture": "キャプチャ",
		"Output":  "出力",
		"Encoder": "エンコーダー",
		"Logging": "ログ",

		// Root command
		"Keep the last seconds of capture in memory and save them as a clip on demand": "直近のキャプチャをメモリに保持し、必要なときにクリップとして保存",

		// Commands
		"Capture continuously and save clips on demand (default)": "継続的にキャプチャし、要求に応じてクリップを保存（デフォルト）",
		"Encode a leftover scratch directory into a clip":         "残存する作業ディレクトリをクリップにエンコード",
		"Check that ffmpeg and Chrome can be found":               "ffmpeg と Chrome が見つかるか確認",
		"Show version information":                                "バージョン情報を表示",

		// Run flags
		"Path to the YAML configuration file":                   "YAML設定ファイルのパス",
		"Reload the configuration file when it changes":         "設定ファイルの変更時に再読み込み",
		"Replay window, e.g. 30s or 2m":                         "リプレイ時間（例: 30s, 2m）",
		"Capture source (synthetic, screen, browser)":           "キャプチャソース（synthetic, screen, browser）",
		"Capture rate in frames per second":                     "キャプチャのフレームレート",
		"Capture width in pixels":                               "キャプチャの幅（ピクセル）",
		"Capture height in pixels":                              "キャプチャの高さ（ピクセル）",
		"Page to capture with the browser source":               "browser ソースでキャプチャするページ",
		"Path to Chrome executable (falls back to CHROME_PATH)": "Chrome実行ファイルのパス（未指定時は CHROME_PATH）",
		"Show the browser window":                               "ブラウザウィンドウを表示",
		"Screen region to capture as x,y,w,h":                   "キャプチャする画面領域（x,y,w,h）",
		"Capture only while this process is running":            "このプロセスの実行中のみキャプチャ",
		"Directory for saved clips":                             "クリップの保存先ディレクトリ",
		"Write a markdown report next to each clip":             "クリップと同じ場所にMarkdownレポートを出力",
		"Path to ffmpeg (falls back to FFMPEG_PATH, then PATH)": "ffmpegのパス（未指定時は FFMPEG_PATH, PATH）",
		"Clip frame rate, a number or auto":                     "クリップのフレームレート（数値または auto）",
		"x264 CRF (0-51, lower is better)":                      "x264 のCRF値（0-51、低いほど高品質）",
		"x264 preset, e.g. veryfast":                            "x264 のプリセット（例: veryfast）",
		"Do not read commands from standard input":              "標準入力からコマンドを読まない",

		// Recover flags
		"Scratch directory holding numbered stills":  "連番の静止画がある作業ディレクトリ",
		"Output clip path":                           "出力クリップのパス",
		"List leftover scratch directories":          "残存する作業ディレクトリを一覧表示",
		"Frame rate of the recovered clip":           "復元するクリップのフレームレート",
		"Directory holding scratch directories":      "作業ディレクトリの親ディレクトリ",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Log format (console, json)":           "ログ形式（console, json）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Runtime messages
		"--output is required to recover a directory":            "ディレクトリを復元するには --output が必要です",
		"ffmpeg: not found (%s)":                                 "ffmpeg: 見つかりません (%s)",
		"ffmpeg: %s (version unknown: %s)":                       "ffmpeg: %s (バージョン不明: %s)",
		"ffmpeg: %s (%s)":                                        "ffmpeg: %s (%s)",
		"chrome: not found (only needed for the browser source)": "chrome: 見つかりません（browser ソースでのみ必要）",
		"chrome: %s":                                             "chrome: %s",
		"required tools are missing":                             "必要なツールが見つかりません",
		"replayclip version %s":                                  "replayclip バージョン %s",

		// Clip report
		"Replay Clip":  "リプレイクリップ",
		"Generated at": "生成日時",
		"Item":         "項目",
		"Value":        "値",
		"Clip":         "クリップ",
		"File":         "ファイル",
		"Frames":       "フレーム数",
		"Span":         "収録時間",
		"Frame rate":   "フレームレート",
		"Resolution":   "解像度",
		"File size":    "ファイルサイズ",
		"Export time":  "書き出し時間",
		"Source":       "ソース",
		"Process":      "プロセス",
		"Window":       "保持時間",
		"Codec":        "コーデック",
		"Pixel format": "ピクセル形式",
		"Preset":       "プリセット",
		"CRF":          "CRF値",
		"Container":    "コンテナ",
		"Track codec":  "トラックのコーデック",
		"Samples":      "サンプル数",
		"Duration":     "再生時間",
	})
}

// helpVars supplies the localized help strings referenced from struct tags.
func helpVars() kong.Vars {
	return kong.Vars{
		"group_buffer":  l10n.T("Buffer"),
		"group_capture": l10n.T("Capture"),
		"group_output":  l10n.T("Output"),
		"group_encoder": l10n.T("Encoder"),
		"group_logging": l10n.T("Logging"),

		"help_run":     l10n.T("Capture continuously and save clips on demand (default)"),
		"help_recover": l10n.T("Encode a leftover scratch directory into a clip"),
		"help_check":   l10n.T("Check that ffmpeg and Chrome can be found"),
		"help_version": l10n.T("Show version information"),

		"help_config":       l10n.T("Path to the YAML configuration file"),
		"help_watch_config": l10n.T("Reload the configuration file when it changes"),
		"help_window":       l10n.T("Replay window, e.g. 30s or 2m"),
		"help_source":       l10n.T("Capture source (synthetic, screen, browser)"),
		"help_capture_fps":  l10n.T("Capture rate in frames per second"),
		"help_width":        l10n.T("Capture width in pixels"),
		"help_height":       l10n.T("Capture height in pixels"),
		"help_url":          l10n.T("Page to capture with the browser source"),
		"help_chrome_path":  l10n.T("Path to Chrome executable (falls back to CHROME_PATH)"),
		"help_no_headless":  l10n.T("Show the browser window"),
		"help_region":       l10n.T("Screen region to capture as x,y,w,h"),
		"help_process":      l10n.T("Capture only while this process is running"),
		"help_output_dir":   l10n.T("Directory for saved clips"),
		"help_report":       l10n.T("Write a markdown report next to each clip"),
		"help_ffmpeg":       l10n.T("Path to ffmpeg (falls back to FFMPEG_PATH, then PATH)"),
		"help_encoder_fps":  l10n.T("Clip frame rate, a number or auto"),
		"help_crf":          l10n.T("x264 CRF (0-51, lower is better)"),
		"help_preset":       l10n.T("x264 preset, e.g. veryfast"),
		"help_no_stdin":     l10n.T("Do not read commands from standard input"),

		"help_recover_dir":    l10n.T("Scratch directory holding numbered stills"),
		"help_recover_output": l10n.T("Output clip path"),
		"help_recover_list":   l10n.T("List leftover scratch directories"),
		"help_recover_fps":    l10n.T("Frame rate of the recovered clip"),
		"help_scratch_root":   l10n.T("Directory holding scratch directories"),

		"help_log_level":  l10n.T("Log level (debug, info, warn, error)"),
		"help_log_format": l10n.T("Log format (console, json)"),
		"help_quiet":      l10n.T("Suppress all log output"),
	}
}
