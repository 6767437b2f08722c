package main

import (
	"github.com/spf13/cobra"

	"github.com/lumen-go/lumen/internal/config"
	"github.com/lumen-go/lumen/internal/deploy"
)

func deployCmd() *cobra.Command {
	var (
		bucket string
		prefix string
		region string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Upload the built asset directory to S3",
		Long: `Upload every file in the build output directory to an S3 bucket.

Content types are derived from file extensions and fingerprinted files
are marked immutable. Bucket settings come from the deploy section of
lumen.json; flags take precedence.

Examples:
  lumen deploy
  lumen deploy --bucket=my-site --prefix=app/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd, bucket, prefix, region)
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Destination S3 bucket")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Object key prefix")
	cmd.Flags().StringVar(&region, "region", "", "Bucket region")

	return cmd
}

func runDeploy(cmd *cobra.Command, bucket, prefix, region string) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	if bucket == "" {
		bucket = cfg.Deploy.Bucket
	}
	if prefix == "" {
		prefix = cfg.Deploy.Prefix
	}
	if region == "" {
		region = cfg.Deploy.Region
	}

	ctx := cmd.Context()
	client, err := deploy.NewClient(ctx, region)
	if err != nil {
		return err
	}

	d := deploy.New(client, deploy.Options{
		Bucket: bucket,
		Prefix: prefix,
	})

	count, err := d.Dir(ctx, cfg.DistPath())
	if err != nil {
		return err
	}

	success("uploaded %d files to s3://%s/%s", count, bucket, prefix)
	return nil
}
