package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Control surface
		"Capturing from %s":                         "%s からキャプチャします",
		"Waiting for %s":                            "%s の起動を待機中",
		"%s detected, starting capture":             "%s を検出しました。キャプチャを開始します",
		"%s exited, stopping capture":               "%s が終了しました。キャプチャを停止します",
		"Process check failed: %v":                  "プロセスの確認に失敗しました: %v",
		"Export started: %s":                        "書き出しを開始しました: %s",
		"Export not started: %v":                    "書き出しを開始できません: %v",
		"Export failed: %v":                         "書き出しに失敗しました: %v",
		"Export result for %s dropped":              "%s の書き出し結果を破棄しました",
		"Nothing to export yet":                     "書き出すフレームがまだありません",
		"Replay window set to %s":                   "リプレイ時間を %s に設定しました",
		"Clip report written to %s":                 "クリップレポートを %s に書き込みました",
		"Could not write clip report %s: %v":        "クリップレポート %s を書き込めませんでした: %v",
		"Shutdown before exports finished: %v":      "書き出しの完了前にシャットダウンしました: %v",
		"Interrupted, shutting down...":             "中断されました。シャットダウン中...",
		"Shutdown incomplete: %v":                   "シャットダウンが完了しませんでした: %v",
		"Found %d leftover scratch directories, see 'replayclip recover --list'": "残存する作業ディレクトリが %d 個あります。'replayclip recover --list' を参照してください",
		"Type 's' to save a clip, 'status', 'w <duration>' or 'q' to quit":       "'s' で保存、'status' で状態表示、'w <時間>' で時間変更、'q' で終了",
		"Ignoring command: %v":                      "コマンドを無視しました: %v",
		"Configuration reloaded, replay window %s":  "設定を再読み込みしました。リプレイ時間 %s",
		"Configuration not reloaded: %v":            "設定を再読み込みできませんでした: %v",
		"Configuration watch failed: %v":            "設定ファイルの監視に失敗しました: %v",
		"Recovered %d frames to %s":                 "%d フレームを %s に復元しました",

		// Capture
		"Capture started: %s":                                 "キャプチャを開始しました: %s",
		"Capture stopped after %d frames":                     "%d フレームでキャプチャを停止しました",
		"Capture stop failed: %v":                             "キャプチャの停止に失敗しました: %v",
		"Capture failed to start: %v":                         "キャプチャを開始できませんでした: %v",
		"Capture ended unexpectedly after %d frames":          "%d フレームでキャプチャが予期せず終了しました",
		"Capture failed: %v":                                  "キャプチャに失敗しました: %v",
		"Capturing at %s intervals":                           "%s 間隔でキャプチャ中",
		"Capture stats: %d delivered, %d dropped, %d failed":  "キャプチャ統計: 配信 %d, 破棄 %d, 失敗 %d",
		"Screencast started: %s":                              "スクリーンキャストを開始しました: %s",
		"Screencast stopped":                                  "スクリーンキャストを停止しました",

		// Buffer
		"Ignoring nil frame":                       "空のフレームを無視しました",
		"Window changed to %s, evicted %d frames":  "保持時間を %s に変更し、%d フレームを破棄しました",
		"Cleared %d frames":                        "%d フレームを破棄しました",

		// Export
		"Exporting %d frames (%s) to %s":               "%d フレーム (%s) を %s に書き出し中",
		"Scratch directory %s":                         "作業ディレクトリ %s",
		"Writing %d frames at %dx%d with %d workers":   "%d フレームを %dx%d で %d ワーカーにより書き出し中",
		"Frame %d failed: %v":                          "フレーム %d の書き出しに失敗しました: %v",
		"Encoding %d frames at %.1f fps":               "%d フレームを %.1f fps でエンコード中",
		"Encoding %d stills from %s to %s":             "%d 枚の静止画を %s から %s にエンコード中",
		"Encoder timed out, retrying (%d/%d)":          "エンコーダーがタイムアウトしました。再試行します (%d/%d)",
		"Video encoded: %d bytes in %s":                "動画をエンコードしました: %d バイト (%s)",
		"Could not probe %s: %v":                       "%s を解析できませんでした: %v",
		"Could not remove scratch directory %s: %v":    "作業ディレクトリ %s を削除できませんでした: %v",
		"Could not remove partial clip %s: %v":         "不完全なクリップ %s を削除できませんでした: %v",
		"Removed partial clip %s":                      "不完全なクリップ %s を削除しました",
		"Saved %s (%d frames, %s)":                     "%s を保存しました (%d フレーム, %s)",

		// ffmpeg
		"Running %s %s":            "%s %s を実行中",
		"Encoder killed after %s":  "%s 後にエンコーダーを停止しました",
	})
}
