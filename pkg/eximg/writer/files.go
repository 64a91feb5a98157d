package writer

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var unsafeChars = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_", "/", "_",
	`\`, "_", "|", "_", "?", "_", "*", "_",
)

// SafeName makes s usable as a single directory name: characters reserved on
// common file systems become "_" and the result is NFC-normalised.
func SafeName(s string) string {
	return norm.NFC.String(unsafeChars.Replace(s))
}

// freeName returns name, or name with "_1", "_2", ... inserted before the
// extension, whichever does not exist yet in dir.
func freeName(dir, name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	final := name
	for n := 1; exists(filepath.Join(dir, final)); n++ {
		final = stem + "_" + strconv.Itoa(n) + ext
	}
	return final
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// CopyFile copies the bytes of src to dst and carries over the file mode and
// modification time.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	// Metadata is best effort.
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}
