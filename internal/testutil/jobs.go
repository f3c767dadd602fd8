// Package testutil provides an in-memory job-postings repository that
// stands in for the persistent backend behind the cache layer, with
// query counters so tests can assert which reads hit storage.
package testutil

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// JobPosting is a job advertised by a company.
type JobPosting struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Title     string    `json:"title"`
	Location  string    `json:"location"`
	Salary    int       `json:"salary"`
	CreatedAt time.Time `json:"created_at"`
}

// JobRepo is an in-memory job store. All methods are safe for
// concurrent use.
type JobRepo struct {
	mu      sync.Mutex
	jobs    map[string]JobPosting
	nextID  int
	queries int
}

// NewJobRepo creates an empty repository.
func NewJobRepo() *JobRepo {
	return &JobRepo{jobs: make(map[string]JobPosting)}
}

// Create stores a new posting and assigns its ID.
func (r *JobRepo) Create(job JobPosting) JobPosting {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	job.ID = fmt.Sprintf("j-%d", r.nextID)
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	r.jobs[job.ID] = job
	return job
}

// Get returns the posting with the given ID.
func (r *JobRepo) Get(id string) (JobPosting, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.queries++
	job, ok := r.jobs[id]
	return job, ok
}

// Update replaces the posting with the given ID, keeping its ID and
// company.
func (r *JobRepo) Update(id string, job JobPosting) (JobPosting, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.jobs[id]
	if !ok {
		return JobPosting{}, false
	}
	job.ID = existing.ID
	job.CompanyID = existing.CompanyID
	job.CreatedAt = existing.CreatedAt
	r.jobs[id] = job
	return job, true
}

// Delete removes the posting with the given ID.
func (r *JobRepo) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return false
	}
	delete(r.jobs, id)
	return true
}

// ListByCompany returns one page of a company's postings, newest ID
// first. Pages are 1-based.
func (r *JobRepo) ListByCompany(companyID string, page, perPage int) []JobPosting {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.queries++

	var all []JobPosting
	for _, job := range r.jobs {
		if job.CompanyID == companyID {
			all = append(all, job)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	start := (page - 1) * perPage
	if start >= len(all) {
		return []JobPosting{}
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// QueryCount returns how many reads reached storage, for asserting
// cache behavior.
func (r *JobRepo) QueryCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queries
}
