// Package maintenance は運用向けの補助処理を提供します。
package maintenance

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// ErrNotRegularFile はログのパスがファイルでない場合のエラーです。
var ErrNotRegularFile = errors.New("log path is not a regular file")

// ClearLog はログファイルを空にします。ファイルがなければ何もせずメッセージだけ出力します。
func ClearLog(path string, w io.Writer) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(w, "File Was Not found!")
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not stat log file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	fmt.Fprint(w, "................Clearing Logs Data................... \n")
	if err := os.Truncate(path, 0); err != nil {
		return fmt.Errorf("could not truncate log file: %w", err)
	}
	fmt.Fprintln(w, "Logs cleared successfully")
	return nil
}
