// Package notify delivers contract-signed emails in the background.
// Delivery is best effort: failures are logged and never reach the caller.
package notify

import (
	"context"
	"sync"
	"time"

	"academy/internal/app/contract"
	"academy/internal/app/ds"
	"academy/internal/app/mailer"
	"academy/internal/app/view"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// PDFSource renders the contract attachment
type PDFSource interface {
	ContractPDF(ctx context.Context, c *ds.Contract, student *ds.Student, packageName string) ([]byte, error)
}

// ContractSigned is one notification job. Values are copies taken after commit.
type ContractSigned struct {
	Contract    ds.Contract
	Student     ds.Student
	PackageName string
	PackageSlug string
}

// Result reports per-recipient outcome of a delivery
type Result struct {
	StudentErr error
	AdminErr   error
}

type Dispatcher struct {
	mailer     mailer.Mailer
	docs       PDFSource
	adminEmail string
	timeout    time.Duration

	jobs chan ContractSigned
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(m mailer.Mailer, docs PDFSource, adminEmail string, queueSize int, timeout time.Duration) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 100
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Dispatcher{
		mailer:     m,
		docs:       docs,
		adminEmail: adminEmail,
		timeout:    timeout,
		jobs:       make(chan ContractSigned, queueSize),
	}
}

// Start launches the worker. Call once.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for job := range d.jobs {
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			d.Deliver(ctx, job)
			cancel()
		}
	}()
}

// Enqueue never blocks. A full or closed queue drops the job.
func (d *Dispatcher) Enqueue(job ContractSigned) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		logrus.Warnf("notify: dispatcher closed, dropping contract %s", job.Contract.ContractNumber)
		return false
	}

	select {
	case d.jobs <- job:
		return true
	default:
		logrus.Errorf("notify: queue full, dropping contract %s", job.Contract.ContractNumber)
		return false
	}
}

// Close stops accepting jobs and waits for queued ones until ctx is done
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Deliver sends the student and admin mails concurrently.
// The student copy carries the contract PDF when it can be rendered.
func (d *Dispatcher) Deliver(ctx context.Context, job ContractSigned) Result {
	var attachments []mailer.Attachment
	if d.docs != nil {
		data, err := d.docs.ContractPDF(ctx, &job.Contract, &job.Student, job.PackageName)
		if err != nil {
			logrus.Errorf("notify: contract %s pdf: %v", job.Contract.ContractNumber, err)
		} else {
			attachments = append(attachments, mailer.Attachment{
				Filename: contract.FileName(job.PackageSlug, job.Student.FirstName, job.Student.LastName, job.Contract.SignedAt),
				MIMEType: "application/pdf",
				Content:  data,
			})
		}
	}

	data := view.ContractMail{
		StudentName:    job.Student.FullName(),
		StudentEmail:   job.Student.Email,
		PackageName:    job.PackageName,
		ContractNumber: job.Contract.ContractNumber,
		SignedAt:       job.Contract.SignedAt,
	}

	var res Result
	var g errgroup.Group
	g.Go(func() error {
		res.StudentErr = d.sendStudent(ctx, job, data, attachments)
		return nil
	})
	if d.adminEmail != "" {
		g.Go(func() error {
			res.AdminErr = d.sendAdmin(ctx, data, attachments)
			return nil
		})
	}
	_ = g.Wait()

	if res.StudentErr != nil {
		logrus.Errorf("notify: student mail for contract %s: %v", job.Contract.ContractNumber, res.StudentErr)
	}
	if res.AdminErr != nil {
		logrus.Errorf("notify: admin mail for contract %s: %v", job.Contract.ContractNumber, res.AdminErr)
	}
	return res
}

func (d *Dispatcher) sendStudent(ctx context.Context, job ContractSigned, data view.ContractMail, attachments []mailer.Attachment) error {
	html, err := view.StudentMailHTML(data)
	if err != nil {
		return err
	}
	return d.mailer.Send(ctx, mailer.Message{
		To:          mailer.Address{Email: job.Student.Email, Name: job.Student.FullName()},
		Subject:     "Potpisani ugovor " + job.Contract.ContractNumber,
		HTML:        html,
		Attachments: attachments,
	})
}

func (d *Dispatcher) sendAdmin(ctx context.Context, data view.ContractMail, attachments []mailer.Attachment) error {
	html, err := view.AdminMailHTML(data)
	if err != nil {
		return err
	}
	return d.mailer.Send(ctx, mailer.Message{
		To:          mailer.Address{Email: d.adminEmail},
		Subject:     "Novi ugovor: " + data.StudentName,
		HTML:        html,
		Attachments: attachments,
	})
}
