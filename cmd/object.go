package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"bucketkit/core/objects"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	bucketFlag       string
	compressFlag     bool
	contentTypeFlag  string
	storageClassFlag string
	tokenFlag        string
	maxKeysFlag      int
	allFlag          bool
	exactFlag        bool
	outputFlag       string
	daysFlag         int
	tierFlag         string
	versionIDFlag    string
)

// objectCmd groups the single-operation subcommands.
var objectCmd = &cobra.Command{
	Use:   "object",
	Short: "Run a single object storage operation",
	Long:  `Each subcommand performs one storage call. The bucket defaults to storage.bucket.`,
}

// runObject wraps a subcommand body with bootstrap, bucket resolution and logger flush.
func runObject(fn func(cmd *cobra.Command, a *app, bucket string, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		bucket, err := a.bucketOr(bucketFlag)
		if err != nil {
			return err
		}
		return fn(cmd, a, bucket, args)
	}
}

var objectGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Download the raw object body",
	Args:  cobra.ExactArgs(1),
	RunE: runObject(func(cmd *cobra.Command, a *app, bucket string, args []string) error {
		obj, err := a.store.GetObject(cmd.Context(), bucket, args[0])
		if err != nil {
			return err
		}
		defer obj.Body.Close()

		var n int64
		if outputFlag != "" && outputFlag != "-" {
			n, err = writeFile(outputFlag, obj.Body)
		} else {
			n, err = io.Copy(cmd.OutOrStdout(), obj.Body)
		}
		if err != nil {
			return fmt.Errorf("failed to read %s/%s: %w", bucket, args[0], err)
		}
		a.logger.Debug("Object downloaded",
			zap.String("key", args[0]),
			zap.Int64("bytes", n),
			zap.String("content_type", obj.Info.ContentType),
		)
		return nil
	}),
}

// writeFile copies r into path. A partially written file is removed.
func writeFile(path string, r io.Reader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return n, err
	}
	return n, nil
}

var objectCatCmd = &cobra.Command{
	Use:   "cat <key>",
	Short: "Print the object body as UTF-8 text",
	Args:  cobra.ExactArgs(1),
	RunE: runObject(func(cmd *cobra.Command, a *app, bucket string, args []string) error {
		text, err := a.store.GetObjectContent(cmd.Context(), bucket, args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}),
}

var objectLsCmd = &cobra.Command{
	Use:   "ls [prefix]",
	Short: "List objects under a prefix",
	Args:  cobra.MaximumNArgs(1),
	RunE: runObject(func(cmd *cobra.Command, a *app, bucket string, args []string) error {
		var prefix string
		if len(args) == 1 {
			prefix = args[0]
		}

		if allFlag {
			all, err := a.store.ListAll(cmd.Context(), bucket, prefix)
			if err != nil {
				return err
			}
			printObjects(cmd.OutOrStdout(), all)
			return nil
		}

		page, err := a.store.ListObjects(cmd.Context(), bucket, prefix, objects.ListOptions{
			ContinuationToken: tokenFlag,
			MaxKeys:           maxKeysFlag,
		})
		if err != nil {
			return err
		}
		printObjects(cmd.OutOrStdout(), page.Objects)
		if page.ContinuationToken != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "more results: --token %s\n", page.ContinuationToken)
		}
		return nil
	}),
}

func printObjects(w io.Writer, objs []minio.ObjectInfo) {
	for _, obj := range objs {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			obj.LastModified.UTC().Format("2006-01-02T15:04:05Z"), obj.Size, obj.StorageClass, obj.Key)
	}
}

var objectExistsCmd = &cobra.Command{
	Use:   "exists <prefix>",
	Short: "Report whether any object matches the prefix (or the exact key with --exact)",
	Args:  cobra.ExactArgs(1),
	RunE: runObject(func(cmd *cobra.Command, a *app, bucket string, args []string) error {
		var (
			exists bool
			err    error
		)
		if exactFlag {
			exists, err = a.store.KeyExists(cmd.Context(), bucket, args[0])
		} else {
			exists, err = a.store.ObjectExists(cmd.Context(), bucket, args[0])
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), exists)
		return nil
	}),
}

var objectPutCmd = &cobra.Command{
	Use:   "put <key> [content]",
	Short: "Write content (argument or stdin) to an object",
	Args:  cobra.RangeArgs(1, 2),
	RunE: runObject(func(cmd *cobra.Command, a *app, bucket string, args []string) error {
		var content []byte
		if len(args) == 2 {
			content = []byte(args[1])
		} else {
			var err error
			if content, err = io.ReadAll(cmd.InOrStdin()); err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
		}

		info, err := a.store.WriteObject(cmd.Context(), bucket, args[0], content, putOptions())
		if err != nil {
			return err
		}
		a.logger.Info("Object written", zap.String("bucket", info.Bucket), zap.String("key", info.Key), zap.Int64("size", info.Size))
		return nil
	}),
}

var objectUploadCmd = &cobra.Command{
	Use:   "upload <path> <key>",
	Short: "Upload a local file",
	Args:  cobra.ExactArgs(2),
	RunE: runObject(func(cmd *cobra.Command, a *app, bucket string, args []string) error {
		info, err := a.store.UploadFile(cmd.Context(), args[0], bucket, args[1], putOptions())
		if err != nil {
			return err
		}
		a.logger.Info("File uploaded", zap.String("bucket", info.Bucket), zap.String("key", info.Key), zap.Int64("size", info.Size))
		return nil
	}),
}

func putOptions() objects.PutOptions {
	return objects.PutOptions{
		Compress:     compressFlag,
		ContentType:  contentTypeFlag,
		StorageClass: storageClassFlag,
	}
}

var objectCpCmd = &cobra.Command{
	Use:   "cp <source-bucket/key> <key>",
	Short: "Copy an object into the bucket on the server side",
	Args:  cobra.ExactArgs(2),
	RunE: runObject(func(cmd *cobra.Command, a *app, bucket string, args []string) error {
		info, err := a.store.CopyObject(cmd.Context(), bucket, args[1], args[0], objects.CopyOptions{
			StorageClass: storageClassFlag,
		})
		if err != nil {
			return err
		}
		a.logger.Info("Object copied", zap.String("source", args[0]), zap.String("bucket", info.Bucket), zap.String("key", info.Key))
		return nil
	}),
}

var objectRmCmd = &cobra.Command{
	Use:   "rm <key>",
	Short: "Delete an object",
	Args:  cobra.ExactArgs(1),
	RunE: runObject(func(cmd *cobra.Command, a *app, bucket string, args []string) error {
		if err := a.store.DeleteObject(cmd.Context(), bucket, args[0]); err != nil {
			return err
		}
		a.logger.Info("Object deleted", zap.String("bucket", bucket), zap.String("key", args[0]))
		return nil
	}),
}

var objectRestoreCmd = &cobra.Command{
	Use:   "restore <key>",
	Short: "Restore an archived object for a number of days",
	Args:  cobra.ExactArgs(1),
	RunE: runObject(func(cmd *cobra.Command, a *app, bucket string, args []string) error {
		tier, err := objects.ParseTier(tierFlag)
		if err != nil {
			return err
		}
		res, err := a.store.RestoreObject(cmd.Context(), bucket, args[0], objects.RestoreOptions{
			Days:      daysFlag,
			Tier:      tier,
			VersionID: versionIDFlag,
		})
		if err != nil {
			return err
		}
		a.logger.Info("Restore requested",
			zap.String("bucket", res.Bucket),
			zap.String("key", res.Key),
			zap.Int("days", res.Days),
			zap.String("tier", string(res.Tier)),
			zap.Bool("already_in_progress", res.AlreadyInProgress),
		)
		return nil
	}),
}

func init() {
	RootCmd.AddCommand(objectCmd)
	objectCmd.AddCommand(
		objectGetCmd, objectCatCmd, objectLsCmd, objectExistsCmd,
		objectPutCmd, objectUploadCmd, objectCpCmd, objectRmCmd, objectRestoreCmd,
	)

	objectCmd.PersistentFlags().StringVarP(&bucketFlag, "bucket", "b", "", "Bucket name (defaults to storage.bucket)")

	objectGetCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write to file instead of stdout")

	objectLsCmd.Flags().StringVar(&tokenFlag, "token", "", "Continuation token from a previous page")
	objectLsCmd.Flags().IntVar(&maxKeysFlag, "max-keys", 0, "Page size (0 uses the service default)")
	objectLsCmd.Flags().BoolVar(&allFlag, "all", false, "Walk every page")

	objectExistsCmd.Flags().BoolVar(&exactFlag, "exact", false, "Match the exact key instead of a prefix")

	for _, c := range []*cobra.Command{objectPutCmd, objectUploadCmd} {
		c.Flags().BoolVar(&compressFlag, "compress", false, "Gzip the content before upload")
		c.Flags().StringVar(&contentTypeFlag, "content-type", "", "Content-Type to store")
	}
	for _, c := range []*cobra.Command{objectPutCmd, objectUploadCmd, objectCpCmd} {
		c.Flags().StringVar(&storageClassFlag, "storage-class", "", "Storage class, e.g. STANDARD_IA or GLACIER")
	}

	objectRestoreCmd.Flags().IntVar(&daysFlag, "days", objects.DefaultRestoreDays, "Days the restored copy stays available")
	objectRestoreCmd.Flags().StringVar(&tierFlag, "tier", strings.ToLower(string(minio.TierStandard)), "Retrieval tier: standard, bulk or expedited")
	objectRestoreCmd.Flags().StringVar(&versionIDFlag, "version-id", "", "Object version to restore")
}
