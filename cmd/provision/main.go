// Command provision creates the DynamoDB tables and the attachments
// bucket the API expects. It is idempotent: resources that already
// exist are left alone. Intended for LocalStack and first-time
// environment setup.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamotypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/joho/godotenv"

	"github.com/elmarkeb/clinicdesk/cmd/mainconfig"
	appconfig "github.com/elmarkeb/clinicdesk/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}

	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	for _, table := range []string{cfg.PatientsTable, cfg.ServicesTable, cfg.AppointmentsTable} {
		if err := ensureTable(ctx, dynamoClient, table); err != nil {
			log.Fatalf("ensure table %s: %v", table, err)
		}
		fmt.Printf("table %s ready\n", table)
	}

	if cfg.AttachmentsBucket != "" {
		s3Client := s3.NewFromConfig(awsCfg)
		if err := ensureBucket(ctx, s3Client, cfg.AttachmentsBucket, cfg.AWSRegion); err != nil {
			log.Fatalf("ensure bucket %s: %v", cfg.AttachmentsBucket, err)
		}
		fmt.Printf("bucket %s ready\n", cfg.AttachmentsBucket)
	}

	fmt.Println("provisioning complete")
}

func ensureTable(ctx context.Context, client *dynamodb.Client, name string) error {
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(name),
		AttributeDefinitions: []dynamotypes.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: dynamotypes.ScalarAttributeTypeS},
		},
		KeySchema: []dynamotypes.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: dynamotypes.KeyTypeHash},
		},
		BillingMode: dynamotypes.BillingModePayPerRequest,
	})
	var exists *dynamotypes.ResourceInUseException
	if errors.As(err, &exists) {
		return nil
	}
	if err != nil {
		return err
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	return waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)}, time.Minute)
}

func ensureBucket(ctx context.Context, client *s3.Client, name, region string) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(name)}
	// us-east-1 rejects an explicit location constraint.
	if region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(region),
		}
	}
	_, err := client.CreateBucket(ctx, input)
	var owned *s3types.BucketAlreadyOwnedByYou
	var exists *s3types.BucketAlreadyExists
	if errors.As(err, &owned) || errors.As(err, &exists) {
		return nil
	}
	return err
}
