// Package imagecache keeps downloaded APOD images on disk so revisiting a day
// skips the download.
//
// # Overview
//
// A Cache owns a single directory. Each APOD date maps to one file named
// after the date, with the extension taken from the image URL:
//
//	~/.cache/stargazer/images/2020-07-04.jpg
//	~/.cache/stargazer/images/2021-03-01.png
//
// Extensions outside a small set of image types (jpg, jpeg, png, gif, webp,
// bmp, tif, tiff) fall back to .jpg. The directory is created on the first
// write, so New never touches the disk.
//
// # Fetching
//
// Fetch takes a Downloader, a function that streams a URL into an io.Writer.
// apod.Client.Download has this shape. Fetch:
//
//  1. returns the target path at once if a non-empty file already exists;
//  2. creates the cache directory and a ".download-*" temp file inside it;
//  3. streams the download into the temp file;
//  4. renames the temp file to the target name.
//
// The temp file is removed on every failure path, so a partial image never
// shows up under a date's name. APOD images for a date do not change, so
// there is no expiry.
//
// # Error Classification
//
// Callers need to tell "the network failed" from "the disk failed", and a
// Downloader cannot do that alone: io.Copy returns a write error the same way
// it returns a read error. Fetch therefore wraps the temp file in a writer
// that records its own write errors and decides:
//
//   - temp file write failed (ENOSPC, EIO, ...): plain error, "write temp
//     file: ...", even though the Downloader also failed
//   - Downloader failed otherwise: wrapped with ErrDownload
//   - Downloader returned zero bytes: ErrDownload
//   - directory, temp file creation, close or rename failed: plain error
//
// Test with errors.Is(err, ErrDownload). Anything else is a local problem.
//
// # Maintenance
//
// Status counts the image files and their total size and reports the newest
// modification time. Clear removes image files and leftover temp files and
// leaves anything else in the directory alone. Both are exposed through the
// "stargazer cache" commands.
package imagecache
