package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/feedback-service/internal/domain"
)

// PostFilter captures listing parameters.
type PostFilter struct {
	AuthorID   *string
	AssigneeID *string
	Statuses   []domain.PostStatus
	Priorities []domain.PostPriority
	Types      []domain.PostType
	Limit      int
	Offset     int
}

// VoteChange identifies a single voter's membership in one option's vote set.
type VoteChange struct {
	OptionIndex int
	VoterID     string
}

// PostRepository encapsulates post persistence.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	ListWithFilter(ctx context.Context, filter PostFilter) ([]domain.Post, error)
	ListEscalatable(ctx context.Context, limit int) ([]domain.Post, error)
	ApplyVoteChanges(ctx context.Context, postID string, removals, additions []VoteChange) error
}

type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository instantiates repository.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const query = `
        INSERT INTO posts (author_id, type, title, body, status, priority,
                           due_date, poll_question, poll_multiple_choice, poll_end_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`

	var pollQuestion *string
	pollMultiple := false
	var pollEnd any
	if post.Poll != nil {
		pollQuestion = &post.Poll.Question
		pollMultiple = post.Poll.MultipleChoice
		pollEnd = post.Poll.EndDate
	}
	if err := tx.QueryRow(ctx, query,
		post.AuthorID,
		post.Type,
		post.Title,
		post.Body,
		post.Status,
		post.Priority,
		post.DueDate,
		pollQuestion,
		pollMultiple,
		pollEnd,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt); err != nil {
		return err
	}

	if post.Poll != nil {
		for i, opt := range post.Poll.Options {
			if _, err := tx.Exec(ctx,
				`INSERT INTO poll_options (post_id, option_index, text) VALUES ($1,$2,$3)`,
				post.ID, i, opt.Text,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	const query = `
        UPDATE posts SET status=$1, priority=$2, assignee_kind=$3, assignee_id=$4, assignee_name=$5,
            due_date=$6, status_changed_at=$7, title=$8, body=$9, updated_at=$10
        WHERE id=$11`
	var kind, assigneeID, assigneeName *string
	if post.AssignedTo != nil {
		k := string(post.AssignedTo.Kind)
		kind = &k
		assigneeID = &post.AssignedTo.ID
		assigneeName = &post.AssignedTo.Name
	}
	cmd, err := r.pool.Exec(ctx, query,
		post.Status,
		post.Priority,
		kind,
		assigneeID,
		assigneeName,
		post.DueDate,
		post.StatusChangedAt,
		post.Title,
		post.Body,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const postColumns = `id, author_id, type, title, body, status, priority,
        assignee_kind, assignee_id, assignee_name, due_date, status_changed_at,
        poll_question, poll_multiple_choice, poll_end_date, created_at, updated_at`

func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE id=$1`, postColumns)
	post, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if post.Poll != nil {
		if err := r.loadPoll(ctx, post); err != nil {
			return nil, err
		}
	}
	return post, nil
}

func (r *postRepository) ListWithFilter(ctx context.Context, filter PostFilter) ([]domain.Post, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		clauses = append(clauses, fmt.Sprintf("author_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Types) > 0 {
		placeholders := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			args = append(args, t)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("type IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM posts WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		postColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// ListEscalatable returns non-terminal posts whose priority carries an
// escalation window, oldest status change first.
func (r *postRepository) ListEscalatable(ctx context.Context, limit int) ([]domain.Post, error) {
	if limit <= 0 {
		limit = 200
	}
	query := fmt.Sprintf(`
        SELECT %s FROM posts
        WHERE status NOT IN ('RESOLVED','CLOSED','REJECTED','NOT_A_PROBLEM')
          AND priority IN ('CRITICAL','HIGH','MEDIUM')
        ORDER BY COALESCE(status_changed_at, created_at) ASC
        LIMIT %d`, postColumns, limit)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// ApplyVoteChanges merges vote-set changes per voter id inside a transaction,
// so concurrent votes from different voters are both retained.
func (r *postRepository) ApplyVoteChanges(ctx context.Context, postID string, removals, additions []VoteChange) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, change := range removals {
		if _, err := tx.Exec(ctx,
			`DELETE FROM poll_votes WHERE post_id=$1 AND option_index=$2 AND voter_id=$3`,
			postID, change.OptionIndex, change.VoterID,
		); err != nil {
			return err
		}
	}
	for _, change := range additions {
		if _, err := tx.Exec(ctx,
			`INSERT INTO poll_votes (post_id, option_index, voter_id)
             VALUES ($1,$2,$3) ON CONFLICT DO NOTHING`,
			postID, change.OptionIndex, change.VoterID,
		); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `UPDATE posts SET updated_at=NOW() WHERE id=$1`, postID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postRepository) loadPoll(ctx context.Context, post *domain.Post) error {
	rows, err := r.pool.Query(ctx,
		`SELECT option_index, text FROM poll_options WHERE post_id=$1 ORDER BY option_index`,
		post.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var index int
		var text string
		if err := rows.Scan(&index, &text); err != nil {
			return err
		}
		post.Poll.Options = append(post.Poll.Options, domain.PollOption{Text: text})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	voteRows, err := r.pool.Query(ctx,
		`SELECT option_index, voter_id FROM poll_votes WHERE post_id=$1 ORDER BY created_at, voter_id`,
		post.ID)
	if err != nil {
		return err
	}
	defer voteRows.Close()

	for voteRows.Next() {
		var index int
		var voterID string
		if err := voteRows.Scan(&index, &voterID); err != nil {
			return err
		}
		if index < 0 || index >= len(post.Poll.Options) {
			continue
		}
		post.Poll.Options[index].Votes = append(post.Poll.Options[index].Votes, voterID)
	}
	return voteRows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var post domain.Post
	var assigneeKind, assigneeID, assigneeName *string
	var pollQuestion *string
	var pollMultiple bool
	var pollEnd *time.Time
	if err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Type,
		&post.Title,
		&post.Body,
		&post.Status,
		&post.Priority,
		&assigneeKind,
		&assigneeID,
		&assigneeName,
		&post.DueDate,
		&post.StatusChangedAt,
		&pollQuestion,
		&pollMultiple,
		&pollEnd,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if assigneeKind != nil && assigneeID != nil {
		assignee := domain.Assignee{Kind: domain.AssigneeKind(*assigneeKind), ID: *assigneeID}
		if assigneeName != nil {
			assignee.Name = *assigneeName
		}
		post.AssignedTo = &assignee
	}
	if pollQuestion != nil {
		post.Poll = &domain.Poll{
			Question:       *pollQuestion,
			MultipleChoice: pollMultiple,
			EndDate:        pollEnd,
		}
	}
	return &post, nil
}

func scanPosts(rows pgx.Rows) ([]domain.Post, error) {
	var result []domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *post)
	}
	return result, rows.Err()
}
